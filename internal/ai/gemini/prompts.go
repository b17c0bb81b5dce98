package gemini

import (
	"fmt"
	"strings"
)

const maxLetterDescriptionRunes = 3000

const scorePromptHeader = "You are a precise job-match evaluator. Given a resume and a job description, " +
	"return a JSON with fields: score (0-100 integer), strengths (short list), gaps (short list), " +
	"and summary (2-3 sentences). Focus on skills, experience, domain, seniority, and tech stack alignment.\n\n"

func buildScorePrompt(resumeText, jobDescription, scoringGuide string) string {
	var b strings.Builder
	b.WriteString(scorePromptHeader)

	if scoringGuide != "" {
		b.WriteString("--- PERSONAL SCORING GUIDELINES ---\n")
		b.WriteString(scoringGuide)
		b.WriteString("\n--- END OF GUIDELINES ---\n\n")
	}

	fmt.Fprintf(&b, "Resume:\n%s\n\n", resumeText)
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)

	if scoringGuide != "" {
		b.WriteString("Your primary task is to score the job based on my core skills. " +
			"However, you must use the PERSONAL SCORING GUIDELINES provided above to adjust the final score and the reason. " +
			"These are my personal priorities.\n\n")
	}

	b.WriteString("Respond with ONLY the JSON.")
	return b.String()
}

func buildRequirementsPrompt(requirements, skills []string) string {
	var numbered strings.Builder
	for i, req := range requirements {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, req)
	}

	return fmt.Sprintf(`You are an expert HR analyst. Analyze each job requirement against these core skills: %s

Job Requirements:
%s
For each requirement, provide:
1. A Match Score from 1 (irrelevant) to 10 (perfect match) based on semantic alignment with the core skills
2. A brief reason explaining the score

Return ONLY a JSON array where each element has:
- "requirement": the original requirement text
- "score": integer from 1-10
- "reason": short explanation sentence

Example format:
[
  {"requirement": "Experience with Python programming", "score": 9, "reason": "High score: Directly mentions Python which is a core skill"},
  {"requirement": "Marketing experience required", "score": 2, "reason": "Low score: Focuses on marketing, not relevant to technical skills"}
]

Respond with ONLY the JSON array, no additional text.`, strings.Join(skills, ", "), numbered.String())
}

func buildLetterPrompt(resumeText, email, phone, jobTitle, company, description, location string, skills []string) string {
	skillsStr := "None specified"
	if len(skills) > 0 {
		skillsStr = strings.Join(skills, ", ")
	}
	if location == "" {
		location = "Not specified"
	}
	if runes := []rune(description); len(runes) > maxLetterDescriptionRunes {
		description = string(runes[:maxLetterDescriptionRunes])
	}

	return fmt.Sprintf(`You are a professional cover letter writer. Write a personalized cover letter for the following job application.

Job Title: %s
Company: %s
Location: %s

Job Description:
%s

Candidate Resume:
%s

Candidate Skills (ONLY mention these - do not invent skills):
%s

STRICT SYSTEM INSTRUCTIONS - FOLLOW EXACTLY:

1. LENGTH REQUIREMENT:
   - The cover letter body must be EXACTLY TWO PARAGRAPHS. No exceptions.
   - Be extremely concise. Every sentence must add value.

2. TONE REQUIREMENT - MATTER-OF-FACT AND PROFESSIONAL:
   - Use a direct, professional, matter-of-fact tone.
   - FORBIDDEN WORDS/PHRASES: "thrilled", "excited", "passionate", "eager", "enthusiastic",
     "dream job", "perfect fit", "perfect candidate", exclamation marks, overly positive language.
   - ALLOWED PHRASING: "I am writing regarding the [Job Title] position...",
     "My experience includes...", "I am confident in my ability to...",
     "My background in [skill] aligns with your requirements...".

3. ACCURACY REQUIREMENT - NO HALLUCINATIONS:
   - ONLY mention skills that are listed in "Candidate Skills" above or explicitly evident in the resume.
   - If the job requires a skill not in the candidate's skills list, DO NOT mention it.
   - DO NOT apologize for missing skills.
   - DO NOT invent or assume skills the candidate has.

4. SELF-LEARNING EMPHASIS (REQUIRED IN SECOND PARAGRAPH):
   - The second paragraph MUST explicitly mention the candidate's proven ability for self-learning
     and adapting to new technologies quickly, framed as a key asset that bridges any gap in
     specific tool requirements, in matter-of-fact language.

STRUCTURE:
- Subject line
- Salutation
- FIRST PARAGRAPH: Direct statement of interest and key qualifications matching the job
- SECOND PARAGRAPH: Self-learning ability and adaptability (as specified above)
- Closing (Sincerely,)
- Candidate name
- Email: %s
- Phone: %s

Write ONLY the cover letter, no additional commentary.`, jobTitle, company, location, description, resumeText, skillsStr, email, phone)
}
