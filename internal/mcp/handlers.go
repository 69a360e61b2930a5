package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/filter"
	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/search"
	"github.com/ziadkadry99/studyhub/internal/share"
)

const notLoaded = "The catalog is not loaded yet. Try again shortly."

func (s *Server) tables() *catalog.Tables {
	if s.src == nil {
		return nil
	}
	return s.src.Tables()
}

func (s *Server) handleListCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t := s.tables()
	if t == nil {
		return mcp.NewToolResultError(notLoaded), nil
	}
	if len(t.Courses) == 0 {
		return mcp.NewToolResultText("No courses available."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d course(s):\n", len(t.Courses)))
	for _, c := range t.Courses {
		writeItem(&sb, c.ID, c.Name, c.Description)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleListChildren(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	levelName, err := request.RequireString("level")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: level"), nil
	}
	parentID, err := request.RequireString("parent_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: parent_id"), nil
	}
	level, err := navigator.ParseLevel(levelName)
	if err != nil || level == navigator.LevelCourse {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported level %q", levelName)), nil
	}

	t := s.tables()
	if t == nil {
		return mcp.NewToolResultError(notLoaded), nil
	}

	var sb strings.Builder
	n := 0
	switch level {
	case navigator.LevelBranch:
		for _, b := range t.BranchesOf(parentID) {
			writeItem(&sb, b.ID, b.Name, b.Description)
			n++
		}
	case navigator.LevelSemester:
		for _, sem := range t.SemestersOf(parentID) {
			writeItem(&sb, sem.ID, sem.Name, "")
			n++
		}
	case navigator.LevelSubject:
		for _, sub := range t.SubjectsOf(parentID) {
			name := sub.Name
			if sub.Code != "" {
				name += " (" + sub.Code + ")"
			}
			writeItem(&sb, sub.ID, name, sub.Description)
			n++
		}
	case navigator.LevelResource:
		for _, r := range t.ResourcesOf(parentID) {
			writeResource(&sb, r)
			n++
		}
	}

	if n == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s entries under %q.", level, parentID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d %s(s):\n", n, level) + sb.String()), nil
}

func (s *Server) handleFindResources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjectID, err := request.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: subject_id"), nil
	}
	t := s.tables()
	if t == nil {
		return mcp.NewToolResultError(notLoaded), nil
	}

	found := filter.Resources(t.Resources, subjectID,
		request.GetString("type", filter.All),
		request.GetString("language", filter.All))
	if len(found) == 0 {
		return mcp.NewToolResultText("No resources found. Try different filters."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d resource(s):\n", len(found)))
	for _, r := range found {
		writeResource(&sb, r)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleSearchResources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	hits, err := s.index.Search(ctx, search.Query{
		Text:      query,
		SubjectID: request.GetString("subject_id", ""),
		Type:      request.GetString("type", ""),
		Language:  request.GetString("language", ""),
		Limit:     request.GetInt("limit", 10),
	})
	if errors.Is(err, search.ErrNotIndexed) {
		return mcp.NewToolResultError(notLoaded), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return mcp.NewToolResultText(search.FormatHits(hits)), nil
}

func (s *Server) handleShareLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link := share.Link{
		Type:      request.GetString("type", share.TypePage),
		ID:        request.GetString("id", ""),
		Course:    request.GetString("course", ""),
		Branch:    request.GetString("branch", ""),
		Semester:  request.GetString("sem", ""),
		Subject:   request.GetString("subject", ""),
		Highlight: true,
	}
	if !link.HasPath() {
		return mcp.NewToolResultError("at least one of course, branch, sem or subject is required"), nil
	}
	return mcp.NewToolResultText(link.URL(s.baseURL)), nil
}

func writeItem(sb *strings.Builder, id, name, description string) {
	sb.WriteString(fmt.Sprintf("- [%s] %s", id, name))
	if description != "" {
		sb.WriteString(": " + description)
	}
	sb.WriteString("\n")
}

func writeResource(sb *strings.Builder, r catalog.Resource) {
	sb.WriteString(fmt.Sprintf("- [%s] %s (%s, %s)", r.ID, r.Title, r.Type, r.LanguageOrDefault()))
	if r.Link != "" {
		sb.WriteString(" " + r.Link)
	}
	sb.WriteString("\n")
}
