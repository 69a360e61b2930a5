package share

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/navigator"
)

func TestShareText(t *testing.T) {
	got := ShareText("Operating Systems", "Study materials for Operating Systems")
	want := "📚 Operating Systems\n\nStudy materials for Operating Systems\n\n🔗 Check it out: "
	if got != want {
		t.Errorf("ShareText() = %q, want %q", got, want)
	}
	if got := ShareText("", ""); got != "\n\n🔗 Check it out: " {
		t.Errorf("ShareText(empty) = %q", got)
	}
}

func TestTargets(t *testing.T) {
	link := "https://studyhub.example/#/share?course=C1&highlight=true"
	targets := Targets(link, "BTech", "All branches for BTech")

	prefixes := map[string]string{
		"WhatsApp": "https://api.whatsapp.com/send?text=",
		"Twitter":  "https://twitter.com/intent/tweet?text=",
		"Facebook": "https://www.facebook.com/sharer/sharer.php?u=",
		"LinkedIn": "https://www.linkedin.com/sharing/share-offsite/?url=",
		"Telegram": "https://t.me/share/url?url=",
		"Email":    "mailto:?subject=",
	}
	if len(targets) != len(prefixes) {
		t.Fatalf("got %d targets, want %d", len(targets), len(prefixes))
	}

	escapedLink := "https%3A%2F%2Fstudyhub.example%2F%23%2Fshare%3Fcourse%3DC1%26highlight%3Dtrue"
	for _, tg := range targets {
		prefix, ok := prefixes[tg.Name]
		if !ok {
			t.Errorf("unexpected target %q", tg.Name)
			continue
		}
		if !strings.HasPrefix(tg.URL, prefix) {
			t.Errorf("%s url = %q, want prefix %q", tg.Name, tg.URL, prefix)
		}
		if !strings.Contains(tg.URL, escapedLink) {
			t.Errorf("%s url does not carry the escaped link: %q", tg.Name, tg.URL)
		}
		if strings.Contains(tg.URL, "+") {
			t.Errorf("%s url encodes spaces as '+': %q", tg.Name, tg.URL)
		}
	}
}

func TestCurrentView(t *testing.T) {
	course := &catalog.Course{ID: "C1", Name: "BTech"}
	branch := &catalog.Branch{ID: "B2", Name: "CS"}
	sem := &catalog.Semester{ID: "S1", Number: "3"}
	subject := &catalog.Subject{ID: "SUB3", Name: "Operating Systems"}

	tests := []struct {
		name string
		path navigator.Path
		want View
	}{
		{"nothing selected", navigator.Path{}, View{Type: "page", Title: "StudyHub", Description: "Free study resources"}},
		{"course", navigator.Path{Course: course}, View{Type: "course", ID: "C1", Title: "BTech", Description: "All branches for BTech"}},
		{"branch", navigator.Path{Course: course, Branch: branch}, View{Type: "branch", ID: "B2", Title: "CS", Description: "Semesters and subjects for CS"}},
		{"semester", navigator.Path{Course: course, Branch: branch, Semester: sem}, View{Type: "semester", ID: "S1", Title: "Semester 3", Description: "All subjects for Semester 3"}},
		{"subject", navigator.Path{Course: course, Branch: branch, Semester: sem, Subject: subject}, View{Type: "subject", ID: "SUB3", Title: "Operating Systems", Description: "Study materials for Operating Systems"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentView(navigator.State{Path: tt.path}); got != tt.want {
				t.Errorf("CurrentView() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
