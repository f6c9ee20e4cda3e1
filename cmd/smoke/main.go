package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // Analysis calls can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	color.Cyan("🚀 Starting Analysis API Smoke Test\n")

	// 1. Create a session
	color.Yellow("\n1. Create Analysis Session")
	resp, body, err := sendRequest("POST", "/analysis/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	created := decode(body)
	prettyPrint(created)

	data, _ := created["data"].(map[string]interface{})
	sessionId, _ := data["id"].(string)
	if sessionId == "" {
		color.Red("No session id in response")
		os.Exit(1)
	}

	// 2. Stage a text note
	color.Yellow("\n2. Stage Text Input")
	resp, body, err = sendRequest("POST", "/analysis/v1/"+sessionId+"/input/text", map[string]interface{}{
		"text": "Patient discharged after appendectomy. Keep wound dry for 48 hours. Follow up in 2 weeks.",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. Run the analysis
	color.Yellow("\n3. Analyze (this calls the model, may take a while)")
	resp, body, err = sendRequest("POST", "/analysis/v1/"+sessionId+"/analyze", map[string]interface{}{})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	if resp.StatusCode != http.StatusOK {
		color.Red("Analysis failed, skipping chat")
		os.Exit(1)
	}

	// 4. Ask a follow-up question
	color.Yellow("\n4. Send Follow-up Chat Message")
	resp, body, err = sendRequest("POST", "/chat/v1/"+sessionId+"/message", map[string]interface{}{
		"message": "When can I shower?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. List history
	color.Yellow("\n5. Get History")
	resp, body, err = sendRequest("GET", "/history/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}
