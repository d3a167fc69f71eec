package narrative

import "fmt"

const executiveSummaryTemplate = `You are an expert data analyst creating executive summaries for GA4 traffic reports.

**Section**: %s

**Data Analysis**:
%s

**Your Task**:
Generate a professional, 3-5 sentence executive summary that:

1. Describes the Year-over-Year (YOY) trend from 2024 to 2025
   - Is there growth, decline, or mixed performance?
   - What is the overall direction?

2. Describes the Month-over-Month (LM) behavior within 2025
   - Is the trend stable, volatile, increasing, or decreasing?
   - Are there notable month-to-month changes?

3. Uses business-friendly, executive-level language
   - Avoid technical jargon
   - Focus on insights and implications
   - Be concise and actionable

**Important Rules**:
- Do NOT mention missing data, errors, or calculation issues
- Do NOT use phrases like "insufficient data" or "unable to calculate"
- If data is limited, focus on what IS available
- Maintain a professional, confident tone
- Use past tense for historical data
- Keep the summary between 3-5 sentences

**Tone**: Professional, analytical, executive-focused

**Output**: Provide ONLY the summary text, no additional formatting or commentary.

Summary:`

const emptySectionTemplate = `You are an expert data analyst creating executive summaries for GA4 traffic reports.

**Section**: %s

**Observation**: This section shows no measurable traffic or engagement during the analyzed period.

**Your Task**:
Generate a professional, 2-3 sentence executive summary that:

1. States that no measurable activity was recorded
2. Suggests this may indicate:
   - Inactive channel
   - Data collection issues
   - Channel not utilized during this period
3. Recommends monitoring or investigation if appropriate

**Tone**: Professional, neutral, non-alarming

**Output**: Provide ONLY the summary text, no additional formatting or commentary.

Summary:`

// executiveSummaryPrompt builds the prompt for a section with computed
// metrics; digest is the statistical summary of those metrics.
func executiveSummaryPrompt(sectionName, digest string) string {
	return fmt.Sprintf(executiveSummaryTemplate, sectionName, digest)
}

// emptySectionPrompt builds the prompt for a section without any
// computed metric.
func emptySectionPrompt(sectionName string) string {
	return fmt.Sprintf(emptySectionTemplate, sectionName)
}

// Deterministic sentences used when generation is disabled or fails.
func activeFallback(sectionName string) string {
	return fmt.Sprintf("Analysis of %s metrics shows varying patterns across the reporting period. Further investigation recommended.", sectionName)
}

func inactiveFallback(sectionName string) string {
	return fmt.Sprintf("No measurable traffic was recorded in %s during the analyzed period.", sectionName)
}
