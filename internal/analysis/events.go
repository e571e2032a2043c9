package analysis

// Stage is a point in one model's progress through the pipeline.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageLoading    Stage = "loading"
	StageClassified Stage = "classified"
	StageMissing    Stage = "missing"
	StageFailed     Stage = "failed"
)

// ModelEvent reports progress for one model.
type ModelEvent struct {
	Model          string
	Stage          Stage
	RunID          string
	Records        int
	Correct        int
	FormatFailures int
	Err            error
}

// Observer receives pipeline progress. Calls may come from several goroutines.
type Observer interface {
	OnModelEvent(event ModelEvent)
}

type nopObserver struct{}

func (nopObserver) OnModelEvent(ModelEvent) {}
