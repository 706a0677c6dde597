package knowledge

import "github.com/hyperjump/vta/internal/models"

const (
	forumURL  = "https://discourse.onlinedegree.iitm.ac.in"
	courseURL = "https://tds.s-anand.net"
)

// Category names, in check order.
const (
	CategoryAssignment = "assignment"
	CategoryContainer  = "containerization"
	CategoryAPI        = "api"
	CategoryExam       = "exam"
	CategoryDefault    = "default"
)

// Default returns the built-in corpus.
func Default() *StaticCorpus {
	return NewStaticCorpus([]models.KnowledgeEntry{
		{
			Question: "Should I use gpt-4o-mini which AI proxy supports, or gpt3.5 turbo?",
			Answer:   "You must use `gpt-3.5-turbo-0125`, even if the AI Proxy only supports `gpt-4o-mini`. Use the OpenAI API directly for this question.",
			Links: []models.Link{
				{
					URL:  forumURL + "/t/ga5-question-8-clarification/155939/4",
					Text: "Use the model that's mentioned in the question.",
				},
				{
					URL:  forumURL + "/t/ga5-question-8-clarification/155939/3",
					Text: "My understanding is that you just have to use a tokenizer, similar to what Prof. Anand used, to get the number of tokens and multiply that by the given rate.",
				},
			},
		},
		{
			Question: "If a student scores 10/10 on GA4 as well as a bonus, how would it appear on the dashboard?",
			Answer:   "If a student scores 10/10 on GA4 as well as a bonus, it would appear as \"110\" on the dashboard. The system shows the base score plus bonus points as a combined display.",
			Links: []models.Link{
				{
					URL:  forumURL + "/t/ga4-data-sourcing-discussion-thread-tds-jan-2025/165959/388",
					Text: "GA4 dashboard scoring explanation with bonus points display.",
				},
			},
		},
		{
			Question: "I know Docker but have not used Podman before. Should I use Docker for this course?",
			Answer:   "While you know Docker and haven't used Podman before, I recommend using Podman for this course as it's the preferred containerization tool. However, Docker is also acceptable and will work fine for the course requirements.",
			Links: []models.Link{
				{
					URL:  courseURL + "/#/docker",
					Text: "TDS course container tools documentation.",
				},
			},
		},
		{
			Question: "When is the TDS Sep 2025 end-term exam?",
			Answer:   "I don't have information about the TDS Sep 2025 end-term exam date as this information is not available yet. Please check the official course announcements or contact the course administrators for future exam schedules.",
			Links:    []models.Link{},
		},
	})
}

// DefaultCategories returns the built-in fallback categories in check order.
// The last one is the default.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:     CategoryAssignment,
			Keywords: []string{"assignment", "ga", "grade"},
			Answer:   "For assignment-related questions, please check the course dashboard for specific requirements and submission guidelines. If you need clarification on grading, refer to the assignment rubric or post your question on the course forum.",
			Links: []models.Link{
				{URL: forumURL, Text: "Post your question on the TDS course forum for detailed assistance."},
			},
		},
		{
			Name:     CategoryContainer,
			Keywords: []string{"docker", "podman", "container"},
			Answer:   "For containerization questions, both Docker and Podman are supported in the course. Podman is preferred but Docker will work as well. Check the course documentation for setup instructions.",
			Links: []models.Link{
				{URL: courseURL + "/#/docker", Text: "TDS course container setup documentation."},
			},
		},
		{
			Name:     CategoryAPI,
			Keywords: []string{"api", "gpt", "openai"},
			Answer:   "For API-related questions, make sure to follow the specific model requirements mentioned in the assignment. Use the OpenAI API directly when specified, even if other proxies are available.",
			Links: []models.Link{
				{URL: forumURL, Text: "Search the forum for similar API questions and solutions."},
			},
		},
		{
			Name:     CategoryExam,
			Keywords: []string{"exam", "schedule", "date"},
			Answer:   "For exam schedules and important dates, please check the official course announcements and the academic calendar. Future exam dates are typically announced well in advance.",
			Links: []models.Link{
				{URL: forumURL, Text: "Check the course announcements section for exam schedules."},
			},
		},
		{
			Name:   CategoryDefault,
			Answer: "Thank you for your question! While I don't have a specific answer in my knowledge base, I recommend posting this question on the course forum where instructors and fellow students can provide detailed assistance.",
			Links: []models.Link{
				{URL: forumURL, Text: "Post your question on the TDS course forum."},
				{URL: courseURL, Text: "Check the main course website for documentation."},
			},
		},
	}
}
