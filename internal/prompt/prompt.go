// internal/prompt/prompt.go
package prompt

import (
	"fmt"
	"strings"
)

// MaxExcerptChars approximates a 3500-token budget at ~4 chars per token
// (rule of thumb from https://platform.openai.com/tokenizer)
const MaxExcerptChars = 3500 * 4

// NoAnswerSentence is the literal fallback the model must return verbatim
// when the excerpt does not answer the question.
const NoAnswerSentence = `I am sorry, but I am unable to answer this question. I can only answer questions that can be answered using the content of Wikipedia. Please try to rephrase your question.`

// Compose builds the grounding prompt for one question. The excerpt is
// truncated to MaxExcerptChars before interpolation.
func Compose(question, excerpt string, links []string) string {
	if len(excerpt) > MaxExcerptChars {
		excerpt = excerpt[:MaxExcerptChars]
	}

	var builder strings.Builder
	builder.WriteString("Act as if no information exists in the universe other than what is in this text:\n")
	builder.WriteString(fmt.Sprintf("`%s`\n", excerpt))
	builder.WriteString(fmt.Sprintf("Answer the following question and add these links in brackets only if they are relevant to the question [%s]:\n", strings.Join(links, ", ")))
	builder.WriteString(question)
	builder.WriteString("\n")
	builder.WriteString("Treat each paragraph as a separate piece of information and use it for your response only if it is relevant to the question.\n")
	builder.WriteString("If the question is not answered in the text, don't assume an answer and respond only with the following message\n")
	builder.WriteString(fmt.Sprintf("%q\n", NoAnswerSentence))
	builder.WriteString("without providing additional information and links.\n")

	return builder.String()
}
