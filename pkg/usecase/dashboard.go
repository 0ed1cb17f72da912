package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

// A case still open after this many days counts as overdue.
const overdueCaseDays = 30

// Analytics is the aggregate view served on the dashboard.
type Analytics struct {
	TotalCases        int                        `json:"totalCases"`
	CasesByStatus     map[types.CaseStatus]int   `json:"casesByStatus"`
	CasesByDepartment map[types.DepartmentID]int `json:"casesByDepartment"`
	CasesByRiskLevel  map[types.RiskLevel]int    `json:"casesByRiskLevel"`
	AverageDaysOpen   float64                    `json:"averageDaysOpen"`
	CompletedCases    int                        `json:"completedCases"`
	OverdueCases      int                        `json:"overdueCases"`
	TasksByStatus     map[types.TaskStatus]int   `json:"tasksByStatus"`
	OverdueTasks      int                        `json:"overdueTasks"`
	OpenTasks         int                        `json:"openTasks"`
	Departments       []*DepartmentPerformance   `json:"departments"`
	MonthlyTrend      []*MonthlyTrendPoint       `json:"monthlyTrend"`
}

// DepartmentPerformance summarizes case throughput for one department.
type DepartmentPerformance struct {
	Department      types.DepartmentID `json:"department"`
	TotalCases      int                `json:"totalCases"`
	CompletedCases  int                `json:"completedCases"`
	AverageDaysOpen float64            `json:"averageDaysOpen"`
}

// MonthlyTrendPoint counts cases created and completed in one calendar month.
type MonthlyTrendPoint struct {
	Month     string `json:"month"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

// Number of calendar months covered by the trend, newest last.
const trendMonths = 6

type DashboardUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewDashboardUseCase(repo interfaces.Repository) *DashboardUseCase {
	return &DashboardUseCase{
		repo: repo,
		now:  time.Now,
	}
}

// Analytics aggregates case, task and risk figures across the whole system.
func (uc *DashboardUseCase) Analytics(ctx context.Context) (*Analytics, error) {
	now := uc.now().UTC()

	var (
		cases       []*model.Case
		assessments []*model.RiskAssessment
		tasks       []*model.Task
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if cases, err = uc.repo.Case().List(egCtx); err != nil {
			return goerr.Wrap(err, "failed to list cases")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if assessments, err = uc.repo.RiskAssessment().List(egCtx); err != nil {
			return goerr.Wrap(err, "failed to list risk assessments")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if tasks, err = uc.repo.Task().List(egCtx); err != nil {
			return goerr.Wrap(err, "failed to list tasks")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Analytics{
		TotalCases:        len(cases),
		CasesByStatus:     make(map[types.CaseStatus]int),
		CasesByDepartment: make(map[types.DepartmentID]int),
		CasesByRiskLevel:  make(map[types.RiskLevel]int),
		TasksByStatus:     make(map[types.TaskStatus]int),
	}

	type deptAccum struct {
		total     int
		completed int
		openDays  int
		openCases int
	}
	depts := make(map[types.DepartmentID]*deptAccum)
	trend := newTrendWindow(now)

	var openDaysTotal int
	var openCases int
	for _, c := range cases {
		status := c.Status.Normalize()
		result.CasesByStatus[status]++

		var acc *deptAccum
		if c.Department != "" {
			result.CasesByDepartment[c.Department]++
			acc = depts[c.Department]
			if acc == nil {
				acc = &deptAccum{}
				depts[c.Department] = acc
			}
			acc.total++
		}

		if status == types.CaseStatusCompleted {
			result.CompletedCases++
			if acc != nil {
				acc.completed++
			}
		} else {
			days := c.DaysInProcess(now)
			openDaysTotal += days
			openCases++
			if days > overdueCaseDays {
				result.OverdueCases++
			}
			if acc != nil {
				acc.openDays += days
				acc.openCases++
			}
		}

		trend.add(c)
	}
	if openCases > 0 {
		result.AverageDaysOpen = float64(openDaysTotal) / float64(openCases)
	}

	for id, acc := range depts {
		perf := &DepartmentPerformance{
			Department:     id,
			TotalCases:     acc.total,
			CompletedCases: acc.completed,
		}
		if acc.openCases > 0 {
			perf.AverageDaysOpen = float64(acc.openDays) / float64(acc.openCases)
		}
		result.Departments = append(result.Departments, perf)
	}
	sort.Slice(result.Departments, func(i, j int) bool {
		return result.Departments[i].Department < result.Departments[j].Department
	})
	result.MonthlyTrend = trend.result()

	// Count each case once, by its newest assessment
	latest := make(map[int64]types.RiskLevel, len(assessments))
	latestID := make(map[int64]int64, len(assessments))
	for _, a := range assessments {
		if id, ok := latestID[a.CaseID]; !ok || a.ID > id {
			latestID[a.CaseID] = a.ID
			latest[a.CaseID] = a.Level
		}
	}
	for _, level := range latest {
		result.CasesByRiskLevel[level]++
	}

	for _, task := range tasks {
		result.TasksByStatus[task.Status]++
		if !task.Status.IsOpen() {
			continue
		}
		result.OpenTasks++
		if task.IsOverdue(now) {
			result.OverdueTasks++
		}
	}

	return result, nil
}

// trendWindow buckets case creation and completion dates into the last
// trendMonths calendar months, oldest first.
type trendWindow struct {
	start  time.Time
	points []*MonthlyTrendPoint
	index  map[string]*MonthlyTrendPoint
}

func newTrendWindow(now time.Time) *trendWindow {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(trendMonths - 1), 0)

	w := &trendWindow{
		start: first,
		index: make(map[string]*MonthlyTrendPoint, trendMonths),
	}
	for i := 0; i < trendMonths; i++ {
		month := first.AddDate(0, i, 0).Format("2006-01")
		p := &MonthlyTrendPoint{Month: month}
		w.points = append(w.points, p)
		w.index[month] = p
	}
	return w
}

func (w *trendWindow) add(c *model.Case) {
	if !c.CreatedAt.Before(w.start) {
		if p, ok := w.index[c.CreatedAt.UTC().Format("2006-01")]; ok {
			p.Created++
		}
	}
	if c.CompletedAt != nil && !c.CompletedAt.Before(w.start) {
		if p, ok := w.index[c.CompletedAt.UTC().Format("2006-01")]; ok {
			p.Completed++
		}
	}
}

func (w *trendWindow) result() []*MonthlyTrendPoint { return w.points }
