package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `calmmind tracks a student's tasks and turns them into a stress signal.

Core concepts:
- Task: title, priority (Low/Medium/High), optional start and due dates, tags, subtasks.
  Status is derived at read time: an unfinished task past its due date is "missing".
- Stress score: every task has two scores. "display" is bounded 0-1 and drives per-task
  badges; "daily" is weight-based and feeds the 0-100 daily stress percent.
- Stress log: a self-reported level 1-5, used by the admin stress series.
- Trend: a least-squares line over the per-period buckets with a one-step projection.

Default workflow:
1) Orient: call get_stress_summary for the current percent, label and next deadlines.
2) Drill in: get_dashboard (optionally with start/end/granularity) for distributions and series.
3) Act: add_task / update_task / complete_task, then re-check get_task_stress.
4) Check in: log_stress when the user describes how they feel.

Admin tools (get_admin_overview, get_reports, get_department_distribution, upsert_student)
require an admin key.

Docs:
- calmmind://docs/scoring (how the two scores are computed)
- calmmind://docs/dashboards (ranges, buckets and the trend)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "calmmind://docs/scoring",
		Name:        "docs_scoring",
		Title:       "Stress scoring",
		Description: "How task attributes become the display and daily stress scores.",
		Content: `# Stress scoring

## Display profile (0-1)

The average of three components:

- Priority: Low 0.3, Medium 0.6, High 1.0 (unknown counts as Medium).
- Deadline: overdue 1.0, due within 24h 0.9, within 72h 0.7, within a week 0.5,
  later 0.3, no due date 0.5. Finished tasks contribute 0.
- Completion: missing 1.0, todo 0.8, in progress 0.7, finished 0. Completed subtasks
  lower it by up to 30%.

## Daily profile (1-3.2)

- Priority weight: Low 1, Medium 2, High 3.
- Unfinished tasks add 0.10, plus 0.10 when overdue, 0.05 when due within 72h and
  0.05 when they have no due date.
- The daily percent is the sum over tasks divided by 3.2 per task, as 0-100.

## Labels

- High: percent >= 75 or two or more overdue tasks.
- Moderate: percent >= 50, any overdue task, or two or more tasks due within 72h.
- Low otherwise.
`,
	},
	{
		URI:         "calmmind://docs/dashboards",
		Name:        "docs_dashboards",
		Title:       "Dashboards and trends",
		Description: "Ranges, period buckets, zero-filled series and the linear trend.",
		Content: `# Dashboards and trends

## Ranges

- start/end accept YYYY-MM-DD or RFC3339. A bare end date covers the whole day.
- Omitted values default to the last seven days ending today.
- granularity: daily (default), weekly (ISO weeks), monthly, yearly.

## Buckets

- Every period in the range gets a bucket, including empty ones (value 0).
- A task lands in the bucket containing its due date, falling back to its start date.
  Undated tasks are counted in snapshots but not in series.

## Trend

- Least-squares line of stress (mean logged level per bucket) against workload
  (tasks per bucket).
- Fewer than two points, or identical workloads, yields a flat line at the mean.
- The projection predicts stress at one more task than the last bucket, clamped to
  0-5, and is only reported with two or more buckets.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
