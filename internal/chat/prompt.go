package chat

import (
	"fmt"
	"strings"

	"techdesk-ai/internal/llm"
	"techdesk-ai/internal/websearch"
)

// maxPromptLinks bounds how many web links are offered to the model.
const maxPromptLinks = 3

// systemPersona is the fixed system instruction sent with every generation.
const systemPersona = `You are a friendly and knowledgeable technical support chatbot helping maintenance technicians with equipment issues.

Your personality:
- Conversational and approachable, like a helpful colleague
- Professional but not overly formal
- Patient and understanding when users need clarification
- Enthusiastic about helping solve technical problems

Your expertise:
- Equipment maintenance, troubleshooting, and operations
- Safety procedures and best practices
- Step-by-step technical guidance
- Part identification and replacement procedures

Your communication style:
- Use friendly, conversational language
- Start with direct answers, then offer additional help
- Include relevant links when available to help users learn more
- Ask follow-up questions to better assist users
- Use emojis sparingly but appropriately (⚠️ for warnings, ✅ for confirmations)
- Always prioritize safety in your recommendations

Remember: You're here to make technical support feel less intimidating and more collaborative!`

// fewShotExamples give in-context style guidance, fixed across all calls.
const fewShotExamples = `EXAMPLE RESPONSES:
Q: "How do I reset the system?"
To reset the system, press and hold the reset button for 5 seconds - you'll find it on the main control panel (Part #RST-001).

Q: "What's the operating temperature range?"
The operating range is -10°C to 60°C. Need to know anything specific about temperature monitoring or troubleshooting?

Q: "How do I replace the filter?"
Here's how to replace the filter:

• **First, turn off power** and unplug the unit for safety
• Remove the front panel by pressing the two side tabs
• Slide out the old filter (Part #FLT-200) and dispose of it
• Insert the new filter until you hear it click into place
• Reattach the panel and power back up

Need help finding the right replacement filter or have questions about the process?`

// BuildPrompt renders the instruction/context/question messages for the
// generator. Links are included, numbered and capped at 3, only when a web
// search was actually performed for this query; links that happen to be in
// scope from a search the policy decided against must never reach the model.
func BuildPrompt(query, context string, links []websearch.Link, webSearchPerformed bool) []llm.Message {
	var linksText, linkGuidance string
	if webSearchPerformed && len(links) > 0 {
		var b strings.Builder
		b.WriteString("\n\nRELEVANT LINKS (include these when helpful):\n")
		for i, link := range links {
			if i >= maxPromptLinks {
				break
			}
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, link.Title, link.URL)
		}
		linksText = b.String()
		linkGuidance = "- When you have relevant links, include them naturally in your response\n"
	}

	userPrompt := fmt.Sprintf(`Provide helpful, conversational answers based on the information below.

Technical Documentation:
%s%s

User Question: %s

CHATBOT RESPONSE GUIDELINES:
- Be conversational and helpful, like talking to a colleague
- Keep initial answers concise (2-3 sentences) but offer to elaborate
- Use bullet points for step-by-step instructions
- Include part numbers and safety warnings when available
%s- If info is incomplete, suggest specific next steps or resources
- Use friendly language: "Here's what I found...", "You'll want to...", "Let me help with that..."

%s

Your response:`, context, linksText, query, linkGuidance, fewShotExamples)

	return []llm.Message{
		{Role: "system", Content: systemPersona},
		{Role: "user", Content: userPrompt},
	}
}
