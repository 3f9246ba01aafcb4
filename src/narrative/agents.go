package narrative

import (
	"strconv"

	"crypto-analyst/src/models"
)

// Agent is the persona the generator adopts for one section.
type Agent struct {
	Role      string
	Goal      string
	Backstory string
}

// Task pairs a section with its agent and the numbered steps it must cover.
// WebSearch tasks ask about news and social media and are grounded on search
// results when the generator supports it.
type Task struct {
	Section        string
	Agent          Agent
	Steps          func(c PromptContext) []string
	ExpectedOutput string
	WebSearch      bool
}

var (
	MarketResearcher = Agent{
		Role:      "Senior Market Research Analyst",
		Goal:      "Analyze current market conditions, trends, and provide investment insights.",
		Backstory: "A seasoned analyst of cryptocurrency markets who identifies trends and emerging opportunities from data.",
	}
	TechnicalAnalyst = Agent{
		Role:      "Technical Analysis Specialist",
		Goal:      "Perform technical analysis and generate trading signals.",
		Backstory: "A quantitative analyst fluent in RSI, MACD and moving averages who turns indicators into actionable trade ideas.",
	}
	SentimentAnalyst = Agent{
		Role:      "Crypto News & Sentiment Analyst",
		Goal:      "Monitor news, social media, and overall market sentiment.",
		Backstory: "An expert on how news and social media move crypto markets, able to single out the events that drive sentiment.",
	}
	ReportWriter = Agent{
		Role:      "Financial Report Writer",
		Goal:      "Create comprehensive investment reports with actionable insights.",
		Backstory: "Writes clear, concise financial reports and investment recommendations from complex analysis.",
	}
)

// Tasks lists the section tasks in generation order.
var Tasks = []Task{
	{
		Section: models.SectionMarketAnalysis,
		Agent:   MarketResearcher,
		Steps: func(c PromptContext) []string {
			return []string{
				"Analyze current market conditions and trends over the past " + c.Options.Timeframe + ".",
				"Focus on the top " + strconv.Itoa(c.Options.TopN) + " cryptocurrencies by market cap.",
				"Identify key market drivers, catalysts, and risks.",
				"Evaluate overall market sentiment and momentum.",
				"Generate price predictions and risk assessments.",
			}
		},
		ExpectedOutput: "A concise market analysis summarizing current conditions, trends, price predictions, and risk factors.",
		WebSearch:      true,
	},
	{
		Section: models.SectionTechnicalAnalysis,
		Agent:   TechnicalAnalyst,
		Steps: func(c PromptContext) []string {
			return []string{
				"Perform technical analysis on the top " + strconv.Itoa(c.Options.TopN) + " cryptocurrencies over the past " + c.Options.Timeframe + ".",
				"Generate trading signals and identify chart patterns.",
				"Discuss key technical indicators (RSI, MACD, MA).",
				"Identify support and resistance levels.",
				"Provide probability-based trade recommendations.",
			}
		},
		ExpectedOutput: "A concise technical analysis with key trading signals, support/resistance levels, and indicator summaries.",
	},
	{
		Section: models.SectionSentimentAnalysis,
		Agent:   SentimentAnalyst,
		Steps: func(c PromptContext) []string {
			if !c.WebSearch {
				return []string{
					"Read market sentiment from the Fear & Greed Index and the breadth/momentum score.",
					"Summarize market sentiment trends over the past " + c.Options.Timeframe + ".",
					"Explain what the advancing/declining split and volatility say about risk appetite.",
				}
			}
			return []string{
				"Analyze the latest news and social media sentiment.",
				"Summarize market sentiment trends over the past " + c.Options.Timeframe + ".",
				"Identify the impact of recent events on market sentiment.",
			}
		},
		ExpectedOutput: "A brief sentiment summary including overall sentiment scores and key drivers.",
		WebSearch:      true,
	},
	{
		Section: models.SectionExecutiveReport,
		Agent:   ReportWriter,
		Steps: func(c PromptContext) []string {
			return []string{
				"Synthesize all previous analyses into a final, concise report.",
				"Create an executive summary with key findings and actionable recommendations.",
				"Highlight the most critical market insights from the data and analysis.",
			}
		},
		ExpectedOutput: "A final executive report with an overview of the current market, key technical insights, sentiment analysis, " +
			"and recommendations for top long and short-term investment opportunities.",
	},
}

// -----------------------------------------------------------------------------

// TaskFor returns the task producing the named section.
func TaskFor(section string) (Task, bool) {
	for _, t := range Tasks {
		if t.Section == section {
			return t, true
		}
	}
	return Task{}, false
}
