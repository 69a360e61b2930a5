package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listCoursesTool = mcp.NewTool("list_courses",
	mcp.WithDescription("List every course in the catalog with its id, name and description."),
)

var listChildrenTool = mcp.NewTool("list_children",
	mcp.WithDescription("List the branches of a course, the semesters of a branch, the subjects of a semester or the resources of a subject."),
	mcp.WithString("level",
		mcp.Required(),
		mcp.Description("Level of the items to list"),
		mcp.Enum("branch", "semester", "subject", "resource"),
	),
	mcp.WithString("parent_id",
		mcp.Required(),
		mcp.Description("Id of the parent course, branch, semester or subject"),
	),
)

var findResourcesTool = mcp.NewTool("find_resources",
	mcp.WithDescription("List the resources of a subject, optionally narrowed by type and language."),
	mcp.WithString("subject_id",
		mcp.Required(),
		mcp.Description("Subject id"),
	),
	mcp.WithString("type",
		mcp.Description("Resource type such as PDF, Video, Notes or PYQ (default all)"),
	),
	mcp.WithString("language",
		mcp.Description("Resource language such as English or Hindi (default all)"),
	),
)

var searchResourcesTool = mcp.NewTool("search_resources",
	mcp.WithDescription("Search all resources by free text. Returns the closest matches first."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("subject_id",
		mcp.Description("Restrict results to one subject"),
	),
	mcp.WithString("type",
		mcp.Description("Restrict results to one resource type"),
	),
	mcp.WithString("language",
		mcp.Description("Restrict results to one language"),
	),
)

var shareLinkTool = mcp.NewTool("share_link",
	mcp.WithDescription("Build a share URL that opens the browser at the given selection."),
	mcp.WithString("course", mcp.Description("Course id")),
	mcp.WithString("branch", mcp.Description("Branch id")),
	mcp.WithString("sem", mcp.Description("Semester id")),
	mcp.WithString("subject", mcp.Description("Subject id")),
	mcp.WithString("type",
		mcp.Description("Shared item type (default page)"),
		mcp.Enum("page", "course", "branch", "semester", "subject", "resource"),
	),
	mcp.WithString("id", mcp.Description("Shared item id")),
)
