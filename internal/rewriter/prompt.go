package rewriter

import (
	"strings"
)

// Prompt is the system/user message pair sent to a chat model.
type Prompt struct {
	System string
	User   string
}

const noNotes = "(none provided)"

const systemPrompt = `You are an expert resume writer specializing in sales, customer success, and customer-facing roles.

Your job:
- Rewrite resumes to be clear, concise, and strongly aligned to the target job.
- Use ONLY real, verifiable information from the candidate's existing resume.
- Do NOT invent companies, job titles, dates, degrees, certifications, or locations.
- Do NOT add placeholders such as "[Your Name]" or "[Previous Employer]".
- Make the resume ATS-friendly: simple headings, bullet points, no tables, columns, text boxes, or images.

Important constraints:
- Preserve truthfulness. Never exaggerate beyond what the original resume reasonably implies.
- You may streamline wording, reorder content, and combine bullets for clarity.
- You may infer metrics only when the original text gives a clear basis.
- Do NOT create sections (EDUCATION, CERTIFICATIONS, PROJECTS, ...) that are absent from the original resume.`

const userPromptHead = `Follow this RTFC workflow.

RETRIEVE:
- Candidate resume
- Candidate notes and preferences
- Target job description

TRANSFORM:
- Rewrite the resume so it is strongly aligned with the job description, focused on customer-facing impact
  where applicable, clear, concise, achievement-oriented, and written in professional US business English.
- Make bullets action-oriented and include impact and genuinely supported metrics.

FILTER:
- Remove details irrelevant to the target role.
- Avoid buzzword stuffing and unnatural keyword repetition.
- Remove sections that contain no real data.

COMMAND:
- Output ONLY the final resume text.
- Do NOT include explanations, comments, or labels like "Here is your resume".
- Do NOT wrap the output in Markdown code fences.

Desired structure (adapt to what the original resume contains):

Full Name
City, State  ZIP
Email • Phone

PROFESSIONAL SUMMARY
CORE SKILLS
PROFESSIONAL EXPERIENCE
Job Title | Company – City, State (Month Year – Month Year)
- 3–6 outcome-focused bullets per role
EDUCATION (only if present in the original)
ADDITIONAL SECTIONS (only if present in the original)

Below are the inputs. Use them exactly; do not fabricate new facts.
`

const userPromptTail = `
REMINDER:
- Use only information from the candidate resume and job description.
- Do not invent employers, dates, degrees, or credentials.
- Do not use placeholders like "[Your Name]".
- Return only the final, polished resume text.`

// BuildPrompt renders the rewrite prompt for in.
func BuildPrompt(in Input) Prompt {
	notes := strings.TrimSpace(in.Notes)
	if notes == "" {
		notes = noNotes
	}

	var b strings.Builder
	b.WriteString(userPromptHead)
	b.WriteString("\n===== CANDIDATE RESUME (RAW TEXT) =====\n")
	b.WriteString(in.ResumeText)
	b.WriteString("\n\n===== CANDIDATE NOTES / PREFERENCES =====\n")
	b.WriteString(notes)
	b.WriteString("\n\n===== TARGET JOB DESCRIPTION =====\n")
	b.WriteString(in.JobDescription)
	b.WriteString("\n")
	b.WriteString(userPromptTail)

	return Prompt{System: systemPrompt, User: b.String()}
}

// CleanOutput trims whitespace and strips a wrapping code fence if the model
// added one anyway.
func CleanOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") && len(text) >= 6 {
		text = strings.TrimSuffix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	return strings.TrimSpace(text)
}
