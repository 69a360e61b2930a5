package share

import (
	"net/url"
	"strings"

	"github.com/ziadkadry99/studyhub/internal/navigator"
)

const (
	defaultTitle       = "StudyHub"
	defaultDescription = "Free study resources"
)

// Target is an outbound share destination.
type Target struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ShareText is the message body placed before the link in chat and email
// targets.
func ShareText(title, description string) string {
	var text string
	if title != "" {
		text = "📚 " + title
	}
	if description != "" {
		text += "\n\n" + description
	}
	return text + "\n\n🔗 Check it out: "
}

// Targets returns the social share URLs for link, in display order.
func Targets(link, title, description string) []Target {
	esc := escapeComponent
	text := ShareText(title, description)
	return []Target{
		{Name: "WhatsApp", URL: "https://api.whatsapp.com/send?text=" + esc(text+link)},
		{Name: "Twitter", URL: "https://twitter.com/intent/tweet?text=" + esc("📚 "+title) + "&url=" + esc(link)},
		{Name: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + esc(link) + "&quote=" + esc(title)},
		{Name: "LinkedIn", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + esc(link)},
		{Name: "Telegram", URL: "https://t.me/share/url?url=" + esc(link) + "&text=" + esc("📚 "+title)},
		{Name: "Email", URL: "mailto:?subject=" + esc("📚 "+title+" - StudyHub") + "&body=" + esc(text+link)},
	}
}

// View describes what "share current view" shares.
type View struct {
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CurrentView picks the deepest selected level of st.
func CurrentView(st navigator.State) View {
	p := st.Path
	switch {
	case p.Subject != nil:
		title := orDefault(p.Subject.Name, "Subject")
		return View{Type: string(navigator.LevelSubject), ID: p.Subject.ID, Title: title, Description: "Study materials for " + title}
	case p.Semester != nil:
		title := "Semester " + p.Semester.Number
		return View{Type: string(navigator.LevelSemester), ID: p.Semester.ID, Title: title, Description: "All subjects for " + title}
	case p.Branch != nil:
		title := orDefault(p.Branch.Name, "Branch")
		return View{Type: string(navigator.LevelBranch), ID: p.Branch.ID, Title: title, Description: "Semesters and subjects for " + title}
	case p.Course != nil:
		title := orDefault(p.Course.Name, "Course")
		return View{Type: string(navigator.LevelCourse), ID: p.Course.ID, Title: title, Description: "All branches for " + title}
	default:
		return View{Type: TypePage, Title: defaultTitle, Description: defaultDescription}
	}
}

// escapeComponent escapes s for a query value with spaces as %20, which mail
// clients render correctly in mailto bodies.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
