package generator

import "strings"

const exercisePrompt = `Generate a TOEIC Part 7 single passage reading comprehension problem.
The output MUST be a valid JSON object with the following structure:

{
  "passage": {
    "title": "Title of the document",
    "meta": [
      { "label": "Subject", "value": "..." },
      { "label": "Date", "value": "..." },
      { "label": "From", "value": "..." },
      { "label": "To", "value": "..." }
    ],
    "content": [
      { "type": "paragraph", "text": "Paragraph text..." },
      { "type": "table", "headers": ["Col1", "Col2"], "rows": [["Row1Col1", "Row1Col2"], ["Row2Col1", "Row2Col2"]] },
      { "type": "kv-list", "items": [{ "label": "Total", "value": "$100", "highlight": true }] }
    ]
  },
  "questions": [
    {
      "id": 1,
      "text": "Question text...",
      "correct": "A",
      "explanation": "Explanation in Japanese...",
      "options": [
        { "id": "A", "text": "Option A text" },
        { "id": "B", "text": "Option B text" },
        { "id": "C", "text": "Option C text" },
        { "id": "D", "text": "Option D text" }
      ]
    }
  ]
}

Requirements:
- Topic: Business email, invoice, or memo.
- Difficulty: Intermediate (TOEIC 600-700 level).
- Passage length: 150-250 words.
- Include at least one table or list in the content if appropriate (e.g. for an invoice or schedule).
- Every table row must have exactly as many cells as the table has headers.
- Generate 2-3 questions.
- Explanation MUST be in Japanese.
- Ensure the JSON is valid and contains NO markdown formatting (no code fences).`

const sentencePrompt = `Generate a TOEIC Part 5 style reading comprehension question.
Return ONLY a valid JSON object with the following structure, and no other text:
{
  "question": "The sentence with a _______ (blank) to be filled.",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "answer": "The correct option string (must be one of the options)",
  "explanation": "A concise explanation of why the answer is correct and others are wrong, in Japanese."
}
Ensure the difficulty is appropriate for TOEIC (business context, grammar/vocabulary focus).`

// ExercisePrompt returns the Part 7 prompt with an optional topic hint.
func ExercisePrompt(hint string) string {
	return withHint(exercisePrompt, hint)
}

// SentencePrompt returns the Part 5 prompt with an optional topic hint.
func SentencePrompt(hint string) string {
	return withHint(sentencePrompt, hint)
}

func withHint(prompt, hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return prompt
	}
	return prompt + "\n- Topic hint from the learner: " + hint + "."
}
