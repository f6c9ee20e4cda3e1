package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"docdecode-be/internal/entity"
	"docdecode-be/internal/repository/unitofwork"
	"docdecode-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a couple of demo history records so the history screen has content
// on a fresh install.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	demos := []struct {
		input    string
		analysis entity.DischargeAnalysis
	}{
		{
			input: "Patient admitted with community acquired pneumonia, treated with IV ceftriaxone, discharged on oral amoxicillin-clavulanate for 7 days.",
			analysis: entity.DischargeAnalysis{
				OverallSummary: "You were treated for a lung infection and are going home with a week of antibiotic pills.",
				Slides: []entity.ExplanationSlide{
					{
						Topic:         "Diagnosis",
						Content:       "Community acquired pneumonia is a lung infection picked up outside the hospital.",
						LaymanSummary: "You had a lung infection.",
					},
					{
						Topic:         "Medication",
						Content:       "Amoxicillin-clavulanate fights the remaining bacteria. Take it for the full 7 days even if you feel better.",
						LaymanSummary: "Finish all 7 days of antibiotics.",
					},
				},
				Reminders: []entity.Reminder{
					{
						Title:       "Finish antibiotics",
						Date:        time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
						Description: "Last day of amoxicillin-clavulanate course",
					},
				},
			},
		},
		{
			input: "Multimodal input (discharge-summary.pdf)",
			analysis: entity.DischargeAnalysis{
				OverallSummary: "Your knee surgery went well. Keep weight off the leg and attend physiotherapy.",
				Slides: []entity.ExplanationSlide{
					{
						Topic:         "Procedure",
						Content:       "Arthroscopic meniscus repair uses small incisions to fix torn knee cartilage.",
						LaymanSummary: "Keyhole surgery fixed the cartilage in your knee.",
					},
				},
			},
		},
	}

	for _, demo := range demos {
		raw, err := json.Marshal(demo.analysis)
		if err != nil {
			log.Fatal("Error: Failed to marshal demo analysis:", err)
		}

		record := entity.HistoryRecord{
			Id:            uuid.New(),
			OriginalInput: demo.input,
			AnalysisJSON:  raw,
			CreatedAt:     time.Now(),
		}
		if err := uow.HistoryRepository().Create(ctx, &record); err != nil {
			log.Fatal("Error: Failed to seed history record:", err)
		}
		log.Printf("Seeded history record %s", record.Id)
	}

	log.Println("✅ Seeding complete")
}
