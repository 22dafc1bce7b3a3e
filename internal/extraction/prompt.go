package extraction

import (
	"fmt"
)

const extractionPromptTemplate = `You are a text processing assistant. Analyze the following book text and extract all paragraphs.

CRITICAL REQUIREMENTS - FOLLOW EXACTLY:
1. Each paragraph MUST be between 3-7 sentences (NO MORE, NO LESS)
2. NEVER create single-word or single-sentence paragraphs
3. NEVER create paragraphs longer than 7 sentences
4. Count sentences carefully - a sentence ends with . ! or ?
5. If dialogue is short, combine multiple exchanges into one paragraph (up to 7 sentences)
6. Preserve the original text exactly (no summarization or modification)
7. Skip empty lines, page numbers, headers, footers, chapter titles
8. Do NOT include table of contents, index, or chapter listings
9. Skip prefaces and forewords if not part of main narrative
10. Split very long paragraphs into multiple smaller ones (3-7 sentences each)

PARAGRAPH SIZE RULES:
- Minimum: 3 sentences
- Maximum: 7 sentences
- Target: 4-6 sentences per paragraph
- If original paragraph is 15 sentences, split it into 3 paragraphs of 5 sentences each

Return ONLY a valid JSON object in this exact format with no additional text:
{
  "paragraphs": [
    "First paragraph text here...",
    "Second paragraph text here..."
  ]
}

Book text (Chunk %d/%d):
%s`

// buildExtractionPrompt renders the paragraph-extraction prompt for one
// model-sized piece of book text.
func buildExtractionPrompt(piece string, pieceIndex, pieceTotal int) string {
	return fmt.Sprintf(extractionPromptTemplate, pieceIndex, pieceTotal, piece)
}
