package aiclient

// Prompt texts sent to the generative model. Each one pins the exact JSON
// shape the parser in parse.go expects; changing a field name here must be
// mirrored there.

const chapterPrompt = `Here is a transcript JSON where each item contains "id", "start", "end", and "text" fields. Your task is to analyze this transcript and divide it into logical chapters based on topic changes.

The expected structure is:

[
  {
    "chapter": string,
    "summary": string,
    "transcript_start_id": number,
    "transcript_end_id": number
  }
]

For each chapter:
- Create a concise, descriptive title
- Write a brief summary of the main points
- Set transcript_start_id to the id of the first transcript item in the chapter and transcript_end_id to the id of the last one

IMPORTANT: Return ONLY valid JSON with the structure shown. Do not include any markdown formatting, code blocks, or additional text in your response.`

const multipleChoicePrompt = `Generate a multiple choice quiz based on the given transcript segment. Each question should test understanding of the content.

The response should be a JSON array of questions in this exact format:
[
  {
    "question": string,
    "options": string[],
    "answer": string,
    "explanation": string
  }
]

Requirements:
1. Generate 3-5 questions
2. Each question should have 4 options
3. The answer must be one of the options
4. Include a brief explanation for the correct answer
5. Return ONLY valid JSON, no markdown or additional text`

const openEndedPrompt = `Generate open-ended questions based on the given transcript segment. Each question should test understanding of the content.

The response should be a JSON array of questions in this exact format:
[
  {
    "question": string,
    "answer": string,
    "explanation": string
  }
]

Requirements:
1. Generate 3-5 questions
2. Each question should require a short answer
3. The answer should be a concise model response
4. Return ONLY valid JSON, no markdown or additional text`

const answerCheckPrompt = `Compare if the user's answer makes sense with the correct answer and return a JSON response in this exact format:

{
  "correct": boolean,
  "explanation": string
}

Rules:
1. If the answer is correct, set "correct" to true and "explanation" to "make sense"
2. If the answer is incorrect, set "correct" to false and "explanation" to a brief reason why it is wrong

Question: %s
Correct answer: %s
User's answer: %s

Return ONLY the JSON object, no additional text or markdown.`
