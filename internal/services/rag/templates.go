package rag

import (
	"fmt"
	"strings"
)

// answerTemplate pairs query keywords with a rendering rule. Templates are
// checked in order; the first whose query terms match wins.
type answerTemplate struct {
	name         string
	queryTerms   []string
	contextTerms []string
	render       func(info string, authorities []string) string
}

// fallbackAnswer is returned when no template produces an answer.
const fallbackAnswer = "Based on Indian financial regulations and best practices, I recommend consulting with qualified financial advisors for personalized guidance tailored to your specific situation and goals."

// answerTemplates drive keyword-based synthesis from retrieved context.
var answerTemplates = []answerTemplate{
	{
		name:         "emergency_fund",
		queryTerms:   []string{"emergency", "fund", "backup"},
		contextTerms: []string{"emergency", "fund", "months", "expenses"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("According to RBI guidelines, %s. This provides financial security against unexpected events like job loss or medical emergencies.", info)
		},
	},
	{
		name:         "asset_allocation",
		queryTerms:   []string{"allocation", "invest", "portfolio", "equity", "debt"},
		contextTerms: []string{"allocation", "equity", "age", "portfolio"},
		render: func(info string, authorities []string) string {
			authText := "According to financial guidelines"
			if len(authorities) > 0 {
				authText = fmt.Sprintf("According to %s", strings.Join(authorities, ", "))
			}
			return fmt.Sprintf("%s, %s. This strategy balances growth potential with risk management based on your investment horizon.", authText, info)
		},
	},
	{
		name:         "insurance",
		queryTerms:   []string{"insurance", "cover", "protection"},
		contextTerms: []string{"insurance", "coverage", "income", "protection"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("As per IRDAI recommendations, %s. Term insurance provides maximum coverage at lowest cost for pure protection needs.", info)
		},
	},
	{
		name:         "tax_planning",
		queryTerms:   []string{"tax", "saving", "80c", "deduction"},
		contextTerms: []string{"tax", "80c", "deduction", "lakh"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("Under Income Tax regulations, %s. Choose instruments based on your investment goals and liquidity needs.", info)
		},
	},
	{
		name:         "sip",
		queryTerms:   []string{"sip", "mutual", "fund", "systematic"},
		contextTerms: []string{"sip", "systematic", "rupee", "averaging"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("According to AMFI guidelines, %s. SIP is ideal for disciplined long-term wealth creation with risk mitigation.", info)
		},
	},
	{
		name:         "retirement",
		queryTerms:   []string{"retirement", "pension", "retire"},
		contextTerms: []string{"retirement", "accumulate", "expenses", "corpus"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("For retirement planning, %s. Starting early maximizes the power of compounding for wealth creation.", info)
		},
	},
	{
		name:         "budgeting",
		queryTerms:   []string{"budget", "expense", "spending"},
		contextTerms: []string{"budget", "50", "30", "20", "allocate"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("Personal finance experts recommend %s. Adjust percentages based on your income level and financial goals.", info)
		},
	},
	{
		name:         "debt",
		queryTerms:   []string{"debt", "loan", "credit", "card"},
		contextTerms: []string{"debt", "credit", "interest", "repayment"},
		render: func(info string, _ []string) string {
			return fmt.Sprintf("For debt management, %s. Prioritize high-interest debt elimination to improve financial health.", info)
		},
	},
}

// synthesizeAnswer renders the answer for a query from context sentences.
func synthesizeAnswer(query string, sentences []string, authorities []string) string {
	queryLower := strings.ToLower(query)

	for _, tmpl := range answerTemplates {
		if !containsAny(queryLower, tmpl.queryTerms) {
			continue
		}
		if info := firstMatch(sentences, tmpl.contextTerms); info != "" {
			return tmpl.render(info, authorities)
		}
		return fallbackAnswer
	}

	// Generic path: quote the most comprehensive sentence.
	if best := longestSentence(sentences); len(best) > 50 {
		authText := "Based on financial guidelines"
		if len(authorities) > 0 {
			limit := min(len(authorities), 2)
			authText = fmt.Sprintf("According to %s", strings.Join(authorities[:limit], ", "))
		}
		return fmt.Sprintf("%s, %s. For personalized advice, consider consulting with a qualified financial advisor.", authText, best)
	}
	return fallbackAnswer
}

// splitSentences breaks document text into trimmed sentences.
func splitSentences(text string) []string {
	var sentences []string
	for _, part := range strings.Split(text, ".") {
		if s := strings.TrimSpace(part); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// firstMatch returns the first sentence containing any of the terms.
func firstMatch(sentences, terms []string) string {
	for _, sentence := range sentences {
		if containsAny(strings.ToLower(sentence), terms) {
			return sentence
		}
	}
	return ""
}

func longestSentence(sentences []string) string {
	best := ""
	for _, sentence := range sentences {
		if len(sentence) > len(best) {
			best = sentence
		}
	}
	return best
}
