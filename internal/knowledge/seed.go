// Package knowledge provides the curated finance knowledge base: the seed
// corpus, document chunking, and the default in-process retriever.
package knowledge

import (
	"context"
	"fmt"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// seedDocument is one curated source document before chunking.
type seedDocument struct {
	Text       string
	Source     string
	Category   string
	Authority  string
	Confidence float64
}

// seedCorpus is the curated Indian personal-finance knowledge base.
// Texts summarize published regulatory and industry guidance.
var seedCorpus = []seedDocument{
	{
		Text:       "Reserve Bank of India (RBI) strongly recommends maintaining an emergency fund equivalent to 6-12 months of monthly expenses. This fund should be kept in highly liquid instruments like savings accounts, liquid mutual funds, or short-term fixed deposits. The emergency fund serves as a financial buffer against unexpected events such as job loss, medical emergencies, or economic downturns. For salaried individuals, 6 months of expenses is minimum, while business owners should maintain 12 months due to irregular income patterns.",
		Source:     "RBI Financial Literacy Guidelines 2023",
		Category:   "emergency_fund",
		Authority:  "RBI",
		Confidence: 0.95,
	},
	{
		Text:       "Securities and Exchange Board of India (SEBI) investor education guidelines suggest age-based asset allocation strategy. The basic rule is equity percentage should be 100 minus your age. For example, a 30-year-old should allocate 70% to equity and 30% to debt instruments. However, this should be adjusted based on risk tolerance, financial goals, and market conditions. Young investors with stable income can afford higher equity allocation for better long-term returns, while those nearing retirement should prioritize capital preservation.",
		Source:     "SEBI Investor Education and Protection Fund Guidelines",
		Category:   "asset_allocation",
		Authority:  "SEBI",
		Confidence: 0.95,
	},
	{
		Text:       "Section 80C of Income Tax Act allows tax deduction up to ₹1.5 lakh annually. Eligible investments include Equity Linked Savings Scheme (ELSS), Public Provident Fund (PPF), Employee Provident Fund (EPF), life insurance premiums, home loan principal repayment, National Savings Certificate (NSC), and tax-saving fixed deposits. ELSS offers dual benefits of tax saving and wealth creation with lowest lock-in period of 3 years. PPF provides tax-free returns with 15-year lock-in, suitable for long-term retirement planning.",
		Source:     "Income Tax Act 1961, Section 80C",
		Category:   "tax_planning",
		Authority:  "Income Tax Department",
		Confidence: 0.98,
	},
	{
		Text:       "Association of Mutual Funds in India (AMFI) promotes Systematic Investment Plan (SIP) as disciplined investment approach. SIP helps achieve rupee cost averaging by investing fixed amount regularly regardless of market conditions. When markets are high, you buy fewer units; when low, you buy more units. This averages out purchase cost over time. SIP instills investment discipline and is suitable for achieving long-term financial goals like children's education, home purchase, or retirement planning. Minimum SIP amount is ₹500 per month in most mutual funds.",
		Source:     "AMFI Investor Education Guidelines",
		Category:   "investments",
		Authority:  "AMFI",
		Confidence: 0.92,
	},
	{
		Text:       "Insurance Regulatory and Development Authority of India (IRDAI) recommends life insurance coverage of 10-15 times annual income for adequate financial protection. Term insurance is most cost-effective way to get pure life cover without investment component. For example, if annual income is ₹6 lakh, minimum life cover should be ₹60-90 lakh. Health insurance is equally important with minimum ₹5 lakh family floater policy. Critical illness cover, personal accident insurance, and motor insurance complete comprehensive protection portfolio.",
		Source:     "IRDAI Insurance Guidelines 2023",
		Category:   "insurance",
		Authority:  "IRDAI",
		Confidence: 0.95,
	},
	{
		Text:       "Credit card debt carries highest interest rates (24-48% annually) and should be prioritized for repayment. Debt avalanche method suggests paying minimum amount on all debts while putting extra money toward highest interest rate debt first. Debt snowball method focuses on paying smallest debt first for psychological motivation. Credit utilization should be kept below 30% of credit limit for good credit score. Personal loans at 10-16% interest can be used to consolidate high-interest credit card debt.",
		Source:     "RBI Consumer Education Guidelines",
		Category:   "debt_management",
		Authority:  "RBI",
		Confidence: 0.88,
	},
	{
		Text:       "Retirement planning requires accumulating 25-30 times annual expenses by retirement age. For comfortable retirement, if monthly expenses are ₹50,000, target corpus should be ₹1.25-1.5 crore. Starting early leverages power of compounding - investing ₹5,000 monthly from age 25 can create larger corpus than ₹15,000 monthly from age 35. Employee Provident Fund (EPF), Public Provident Fund (PPF), National Pension System (NPS), and mutual funds are key retirement planning instruments.",
		Source:     "Pension Fund Regulatory Authority Guidelines",
		Category:   "retirement",
		Authority:  "PFRDA",
		Confidence: 0.92,
	},
	{
		Text:       "Personal finance experts recommend 50/30/20 budgeting rule for optimal money management. Allocate 50% of after-tax income for needs (rent, utilities, groceries, loan EMIs), 30% for wants (entertainment, dining out, shopping), and 20% for savings and investments. For higher income individuals, savings percentage can be increased to 30-40%. Track expenses using mobile apps or spreadsheets to identify spending patterns and optimize budget allocation based on financial goals and priorities.",
		Source:     "Personal Finance Best Practices India",
		Category:   "budgeting",
		Authority:  "Financial Planning Standards Board",
		Confidence: 0.85,
	},
	{
		Text:       "Gold allocation in investment portfolio should be 5-10% for diversification and inflation hedging. In India, gold can be invested through physical gold, gold ETFs, gold mutual funds, or digital gold platforms. Gold ETFs and mutual funds offer better liquidity and lower making charges compared to physical gold. Gold prices have historically moved inverse to equity markets, providing portfolio stability during market volatility. Avoid gold schemes or chit funds for gold investment.",
		Source:     "SEBI Guidelines on Gold Investment",
		Category:   "commodities",
		Authority:  "SEBI",
		Confidence: 0.88,
	},
	{
		Text:       "Real estate should constitute 20-30% of investment portfolio for wealthy individuals. Home ownership provides stability and tax benefits under Section 80C (principal) and Section 24 (interest deduction up to ₹2 lakh). Real Estate Investment Trusts (REITs) offer real estate exposure with better liquidity than direct property investment. Location, legal clearances, builder reputation, and rental yield are key factors for real estate investment decisions. Avoid investing more than 50% net worth in real estate.",
		Source:     "Real Estate Investment Guidelines India",
		Category:   "real_estate",
		Authority:  "SEBI REIT Regulations",
		Confidence: 0.82,
	},
}

// minSeededDocuments is the count below which Seed reloads the corpus.
const minSeededDocuments = 10

// Seed loads the chunked seed corpus into storage if not already present.
// Returns the number of chunks written (0 when already loaded).
func Seed(ctx context.Context, store interfaces.KnowledgeStorage, logger *common.Logger) (int, error) {
	count, err := store.Count(ctx)
	if err == nil && count >= minSeededDocuments {
		logger.Info().Int("documents", count).Msg("Knowledge base already loaded")
		return 0, nil
	}

	written := 0
	for i, seed := range seedCorpus {
		chunks := ChunkText(seed.Text, DefaultChunkSize, DefaultChunkOverlap)
		for j, chunk := range chunks {
			doc := &models.KnowledgeDocument{
				ID:          fmt.Sprintf("%s_%d_%d", seed.Category, i, j),
				Text:        chunk,
				Source:      seed.Source,
				Category:    seed.Category,
				Authority:   seed.Authority,
				Confidence:  seed.Confidence,
				ChunkIndex:  j,
				TotalChunks: len(chunks),
			}
			if err := store.SaveDocument(ctx, doc); err != nil {
				return written, fmt.Errorf("failed to seed document %s: %w", doc.ID, err)
			}
			written++
		}
	}

	logger.Info().Int("chunks", written).Msg("Knowledge base seeded")
	return written, nil
}
