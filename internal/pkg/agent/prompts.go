package agent

import (
	"context"
	"fmt"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

const (
	reportSystem = "You are an expert admissions consultant. Generate a detailed markdown report for the student application status. " +
		"Use the following sections: Executive Summary, Key Highlights, Action Items, and Next Steps. Be professional but encouraging."

	summarizeTextSystem = "You are a helpful assistant that summarizes text. Provide a concise summary of the provided text."

	summarizeURLSystem = "You are a helpful assistant that summarizes web pages. Provide a concise summary of the webpage content."

	extractInfoSystem = `You are an expert data extractor. Extract university information from the provided text into a strict JSON format.
The JSON should have these fields:
- name: University Name
- location: City, Province/State
- deadline: Application Deadline (e.g., "Jan 15, 2026")
- app_fee: Application Fee (e.g., "$100 CAD")
- tuition: Estimated Tuition for Year 1 (e.g., "$40,000 - $50,000")
- room_board: Estimated Room & Board (e.g., "$15,000")
- scholarships: An array of objects with { "name": "Scholarship Name", "value": "Value", "notes": "Criteria/Notes" }
- insights: A short paragraph of key insights or strategy for an international applicant.

If a field is not found, use "TBD" or "Check Website". Return ONLY the JSON.`

	suggestSystem = `You are an expert university admission counselor for Canada. Suggest 5 best-fit Canadian universities based on the student's profile.
Return a strict JSON array of objects.
JSON Schema:
[
  {
    "name": "University Name",
    "location": "City, Province",
    "matchReason": "Why this is a good match",
    "programs": "Suggested programs"
  }
]`

	essaysSystem = `You are an expert college essay coach. Your goal is to help the student find unique, compelling angles for their personal statement.
Avoid generic advice. Look for specific details in their profile that could be turned into a story.
Return the response in Markdown format with clear headings.`

	strategySystem = `You are a strategic university admissions consultant. Analyze the student's profile to identify strengths, weaknesses, and opportunities.
Return the response in Markdown format.`
)

const notSpecified = "Not specified"

func (a GenerateReport) prompt(context.Context, PageFetcher) (Prompt, error) {
	return Prompt{
		System: reportSystem,
		User:   fmt.Sprintf("Student Data: %s.", a.Student),
	}, nil
}

func (a SummarizeText) prompt(context.Context, PageFetcher) (Prompt, error) {
	return Prompt{
		System: summarizeTextSystem,
		User:   "Summarize the following text:\n\n" + a.Text,
	}, nil
}

func (a SummarizeURL) prompt(ctx context.Context, fetcher PageFetcher) (Prompt, error) {
	text, err := fetchPage(ctx, fetcher, a.URL, summarizeURLLimit)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		System: summarizeURLSystem,
		User:   fmt.Sprintf("Summarize the content of this webpage (%s):\n\n%s", a.URL, text),
	}, nil
}

func (a ExtractUniversityInfo) prompt(ctx context.Context, fetcher PageFetcher) (Prompt, error) {
	text, err := fetchPage(ctx, fetcher, a.URL, extractInfoLimit)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		System: extractInfoSystem,
		User:   fmt.Sprintf("Extract information from this webpage content (%s):\n\n%s", a.URL, text),
	}, nil
}

func (a SuggestUniversities) prompt(context.Context, PageFetcher) (Prompt, error) {
	s := a.Student
	return Prompt{
		System: suggestSystem,
		User: fmt.Sprintf(`Student Profile:
- GPA/Grades: %s
- SAT: %s
- IELTS: %s
- Interests: %s

Suggest 5 Canadian universities that would be realistic and good options for this student. Focus on a mix of reach, target, and safety schools.`,
			s.GPA.or(notSpecified), s.SATScore.or(notSpecified), s.IELTSScore.or(notSpecified),
			s.Interests.or("General Arts/Science")),
	}, nil
}

func (a BrainstormEssays) prompt(context.Context, PageFetcher) (Prompt, error) {
	s := a.Student
	return Prompt{
		System: essaysSystem,
		User: fmt.Sprintf(`Student Profile:
- Interests: %s
- Major: %s
- Background: %s
- Checklist Progress: %s

User Notes/Context: %s

Generate 3 unique essay topic ideas for this student. For each idea, explain "The Angle" (what makes it unique) and "The Hook" (how to start).`,
			s.Interests.or(notSpecified), s.Major.or(notSpecified), s.Background.or("International student"),
			s.checklistProgress(), a.UserNotes),
	}, nil
}

func (a ReviewStrategy) prompt(context.Context, PageFetcher) (Prompt, error) {
	s := a.Student
	return Prompt{
		System: strategySystem,
		User: fmt.Sprintf(`Student Profile:
- GPA: %s
- SAT: %s
- IELTS: %s
- Interests: %s
- Major: %s
- Current Status: %s
- Checklist Progress: %s

User Notes/Context: %s

Provide a strategic review:
1. **Profile Strength**: Rate as High/Medium/Low for top Canadian universities.
2. **Key Gaps**: What is missing? (e.g., leadership, test scores).
3. **Action Plan**: 3 specific things they should do in the next month to improve their chances.`,
			s.GPA.or(notSpecified), s.SATScore.or(notSpecified), s.IELTSScore.or(notSpecified),
			s.Interests.or(notSpecified), s.Major.or(notSpecified), s.Status.or(notSpecified),
			s.checklistProgress(), a.UserNotes),
	}, nil
}

// fetchPage wraps every fetch failure in the message agents see
func fetchPage(ctx context.Context, fetcher PageFetcher, url string, limit int) (string, error) {
	text, err := fetcher.FetchText(ctx, url, limit)
	if err != nil {
		return "", apperrors.NewCustomError(err, "Could not fetch or parse URL: "+err.Error())
	}
	return text, nil
}
