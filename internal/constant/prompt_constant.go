package constant

// AnalysisBasePromptV1 is the fixed instruction sent with every analysis
// request. The document itself is attached as a separate content part.
const AnalysisBasePromptV1 = `Analyze the following medical document (it could be a discharge note, an X-ray image, a lab chart, or a prescription) and explain it in layman's terms.

If it is a text document (like a discharge note):
Break it down into logical topics (e.g., Diagnosis, Medications, Follow-up).

If it is an image of an X-ray or medical scan:
Explain what the image shows, any notable findings mentioned in the annotations or visible in the scan, and what they mean for the patient in simple terms.

If it is a chart or lab result:
Explain the key values, whether they are within normal range, and what the overall results indicate.

For all types:
Provide a clear, simple explanation for each section.`

// AnalysisPremiumPromptV1 extends the base instruction when premium
// demographics are supplied. Placeholders: age, gender, location.
const AnalysisPremiumPromptV1 = `PREMIUM ANALYSIS:
The patient is a %s year old %s living in %s.
Provide a deeper comparative analysis based on these demographics. Mention if certain findings are more common or concerning for this age group or location.
Also, identify any follow-up appointments or medication reminders mentioned in the note and list them as structured reminders.
Finally, suggest nearby healthcare facilities or specialists for follow-up based on the patient's location.`

// AnalysisGroundingPromptV1 is appended when premium geolocation is present,
// anchoring nearby-care suggestions to the patient's coordinates.
// Placeholders: latitude, longitude.
const AnalysisGroundingPromptV1 = `The patient's current coordinates are latitude %.6f, longitude %.6f. Use them when suggesting nearby healthcare facilities.`

const AnalysisOutputPromptV1 = `Output the result in the specified JSON format.`

// ChatSystemInstructionV1 seeds every follow-up chat session. Placeholders:
// original note description, serialized analysis JSON.
const ChatSystemInstructionV1 = `You are a helpful medical assistant called DocDecode.
Your goal is to answer follow-up questions about a patient's discharge note.
You have access to the original note and the simplified explanation provided to the user.
Always use simple, empathetic language. Avoid jargon. If you must use a medical term, explain it.

Original Note:
%s

Simplified Explanation:
%s

If the user asks something not covered in the note, advise them to contact their healthcare provider.`
