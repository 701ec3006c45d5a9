package flush

import (
	"github.com/chocolate-network/ledger/src/engine"
	"github.com/chocolate-network/ledger/src/utils/config"
	"github.com/chocolate-network/ledger/src/utils/model"
	"github.com/chocolate-network/ledger/src/utils/monitoring"
	"github.com/chocolate-network/ledger/src/utils/task"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists committed state transitions to the database in a robust way.
// - groups incoming events into batches,
// - ensures data isn't stuck even if a batch isn't big enough
//
// Rows are reporting replicas keyed by their registry identity, so replaying
// an event is a harmless overwrite and retries are safe.
type Store struct {
	*task.Processor[*engine.Event, *engine.Event]

	DB *gorm.DB

	monitor monitoring.Monitor
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.Processor = task.NewProcessor[*engine.Event, *engine.Event](config, "store").
		WithBatchSize(config.Database.StoreBatchSize).
		WithOnFlush(config.Database.StoreInterval, self.flush).
		WithOnProcess(self.process).
		WithBackoff(config.Database.StoreMaxElapsedTime, config.Database.StoreMaxInterval)

	return
}

func (self *Store) WithMonitor(v monitoring.Monitor) *Store {
	self.monitor = v
	return self
}

func (self *Store) WithInputChannel(v chan *engine.Event) *Store {
	self.Processor = self.Processor.WithInputChannel(v)
	return self
}

func (self *Store) WithDB(v *gorm.DB) *Store {
	self.DB = v
	return self
}

func (self *Store) process(event *engine.Event) (out []*engine.Event, err error) {
	out = []*engine.Event{event}
	return
}

func (self *Store) flush(events []*engine.Event) (out []*engine.Event, err error) {
	if len(events) == 0 {
		return
	}

	self.Log.WithField("count", len(events)).Trace("Flushing events")
	defer self.Log.Trace("Flushing events done")

	err = self.DB.WithContext(self.Ctx).
		Transaction(func(tx *gorm.DB) (err error) {
			for _, event := range events {
				if event.Project != nil {
					err = tx.WithContext(self.Ctx).
						Clauses(clause.OnConflict{UpdateAll: true}).
						Create(projectRow(event)).
						Error
					if err != nil {
						self.Log.WithError(err).WithField("project_id", event.Project.ID).Error("Failed to upsert project")
						return
					}
				}

				if event.Review != nil {
					err = tx.WithContext(self.Ctx).
						Clauses(clause.OnConflict{UpdateAll: true}).
						Create(reviewRow(event)).
						Error
					if err != nil {
						self.Log.WithError(err).WithField("reviewer", event.Review.Reviewer).Error("Failed to upsert review")
						return
					}
				}

				row, columns := userRow(event)
				if row != nil {
					err = tx.WithContext(self.Ctx).
						Clauses(clause.OnConflict{
							Columns:   []clause.Column{{Name: "account"}},
							DoUpdates: clause.AssignmentColumns(columns),
						}).
						Create(row).
						Error
					if err != nil {
						self.Log.WithError(err).WithField("account", event.Account).Error("Failed to upsert user")
						return
					}
				}
			}
			return
		})
	if err != nil {
		if self.monitor != nil {
			self.monitor.GetReport().Engine.Errors.DbStore.Inc()
		}
		return
	}

	// Events terminate here, the publisher gets its own feed
	return
}

func projectRow(event *engine.Event) (row *model.Project) {
	project := event.Project

	reviewers := make(pq.StringArray, len(project.Reviewers))
	for i, reviewer := range project.Reviewers {
		reviewers[i] = string(reviewer)
	}

	return &model.Project{
		Id:               project.ID,
		Owner:            string(project.Owner),
		Metadata:         project.Metadata,
		Status:           string(project.ProposalStatus.Status),
		ReasonKind:       string(project.ProposalStatus.Reason.Kind),
		ReasonNote:       project.ProposalStatus.Reason.Note,
		Reward:           uint64(project.Reward),
		TotalUserScores:  project.TotalUserScores,
		TotalReviewScore: project.TotalReviewScore,
		NumberOfReviews:  project.NumberOfReviews,
		Reviewers:        reviewers,
		UpdatedAt:        event.Timestamp,
	}
}

func reviewRow(event *engine.Event) (row *model.Review) {
	review := event.Review

	return &model.Review{
		Reviewer:           string(review.Reviewer),
		ProjectId:          review.ProjectID,
		Content:            review.Content,
		Status:             string(review.ProposalStatus.Status),
		ReasonKind:         string(review.ProposalStatus.Reason.Kind),
		PointSnapshot:      review.PointSnapshot,
		ReviewScore:        review.ReviewScore,
		CollateralCurrency: uint32(review.CollateralCurrency),
		UpdatedAt:          event.Timestamp,
	}
}

// userRow maps an event to its user profile update, if it implies one.
// Only the columns the event is authoritative for get overwritten.
func userRow(event *engine.Event) (row *model.User, columns []string) {
	switch event.Kind {
	case engine.EventProjectCreated:
		id := event.Project.ID
		row = &model.User{
			Account:   string(event.Account),
			ProjectId: &id,
			UpdatedAt: event.Timestamp,
		}
		columns = []string{"project_id", "updated_at"}

	case engine.EventReviewCreated, engine.EventReviewAccepted:
		row = &model.User{
			Account:    string(event.Account),
			RankPoints: event.RankPoints,
			UpdatedAt:  event.Timestamp,
		}
		columns = []string{"rank_points", "updated_at"}
	}
	return
}
