package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/mindcheck/internal/adapters/repository"
	service "github.com/okian/mindcheck/internal/app"
	"github.com/okian/mindcheck/internal/domain/classify"
	"github.com/okian/mindcheck/internal/domain/scoring"
	"github.com/okian/mindcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	m.Run()
}

// stubScorer returns a fixed total or error.
type stubScorer struct {
	total int
	err   error
}

func (s *stubScorer) Score(_ context.Context, _ []int) (int, error) {
	return s.total, s.err
}

func newService(t *testing.T, sc scoring.Scorer) (*service.Service, *repository.SQLiteStore) {
	t.Helper()
	store, err := repository.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := service.New(
		service.WithStore(store),
		service.WithScorer(sc),
	)
	return svc, store
}

func TestSubmitAndSave(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with the in-process scorer", t, func() {
		svc, store := newService(t, scoring.NewInProcessScorer())

		Convey("When submitting a valid low-score submission", func() {
			// All zeros scores 6: the two reverse-scored questions
			// contribute 3 each.
			result, err := svc.SubmitAndSave(ctx, make([]int, 10), "Alice", "feeling fine")

			Convey("Then the result is classified and persisted", func() {
				So(err, ShouldBeNil)
				So(result.TotalScore, ShouldEqual, 6)
				So(result.Category, ShouldEqual, classify.CategoryGood)
				So(result.Advice, ShouldNotBeEmpty)
				So(result.Color, ShouldEqual, "#16a34a")

				entries, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Name, ShouldEqual, "Alice")
				So(entries[0].Note, ShouldEqual, "feeling fine")
				So(entries[0].Total, ShouldEqual, 6)
				So(entries[0].Category, ShouldEqual, classify.CategoryGood)
			})
		})

		Convey("When submitting the wrong number of answers", func() {
			_, err := svc.SubmitAndSave(ctx, []int{1, 2, 3}, "", "")

			Convey("Then validation fails and nothing is written", func() {
				So(errors.Is(err, scoring.ErrAnswerCount), ShouldBeTrue)
				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When an answer is out of range", func() {
			_, err := svc.SubmitAndSave(ctx, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 7}, "", "")

			Convey("Then validation fails and nothing is written", func() {
				So(errors.Is(err, scoring.ErrAnswerRange), ShouldBeTrue)
				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a scorer that fails", t, func() {
		scoreErr := errors.New("scorer exploded")
		svc, store := newService(t, &stubScorer{err: scoreErr})

		Convey("When submitting", func() {
			_, err := svc.SubmitAndSave(ctx, make([]int, 10), "", "")

			Convey("Then the failure propagates and no history is written", func() {
				So(errors.Is(err, scoreErr), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "scoring failed")
				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a scorer that slips an out-of-range total past its own checks", t, func() {
		svc, _ := newService(t, &stubScorer{total: 99})

		Convey("When submitting", func() {
			result, err := svc.SubmitAndSave(ctx, make([]int, 10), "", "")

			Convey("Then the total is clamped defensively before classification", func() {
				So(err, ShouldBeNil)
				So(result.TotalScore, ShouldEqual, classify.MaxTotal)
				So(result.Category, ShouldEqual, classify.CategoryHigh)

				entries, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(entries[0].Total, ShouldEqual, classify.MaxTotal)
			})
		})
	})
}

func TestHistoryAndClear(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with several saved submissions", t, func() {
		svc, _ := newService(t, scoring.NewInProcessScorer())
		submissions := [][]int{
			make([]int, 10),                // scores 6
			{3, 3, 3, 3, 3, 3, 3, 3, 3, 3}, // scores 24
			{1, 2, 0, 3, 1, 2, 0, 3, 2, 1}, // scores 15
		}
		for _, answers := range submissions {
			_, err := svc.SubmitAndSave(ctx, answers, "", "")
			So(err, ShouldBeNil)
		}

		Convey("When reading history", func() {
			entries, err := svc.History(ctx)

			Convey("Then entries come back newest first", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Total, ShouldEqual, 15)
				So(entries[1].Total, ShouldEqual, 24)
				So(entries[2].Total, ShouldEqual, 6)
			})
		})

		Convey("When exporting", func() {
			body, err := svc.ExportCSV(ctx)

			Convey("Then rows come back oldest first", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(string(body), "\n")
				So(len(lines), ShouldEqual, 4)
				So(lines[0], ShouldEqual, `"timestamp","name","total","category","note"`)
				So(lines[1], ShouldContainSubstring, ",6,")
				So(lines[2], ShouldContainSubstring, ",24,")
				So(lines[3], ShouldContainSubstring, ",15,")
			})
		})

		Convey("When clearing history", func() {
			deleted, err := svc.ClearHistory(ctx)

			Convey("Then the exact count is reported and history is empty", func() {
				So(err, ShouldBeNil)
				So(deleted, ShouldEqual, 3)

				entries, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 0)
			})
		})

		Convey("When asking for stats", func() {
			stats := svc.GetStats()

			Convey("Then the record count is reported", func() {
				So(stats["historyRecords"], ShouldEqual, 3)
			})
		})
	})

	Convey("Given a service whose store has been closed", t, func() {
		svc, store := newService(t, scoring.NewInProcessScorer())
		So(store.Close(), ShouldBeNil)

		Convey("When asking for stats", func() {
			stats := svc.GetStats()

			Convey("Then the count degrades to zero", func() {
				So(stats["historyRecords"], ShouldEqual, 0)
			})
		})
	})
}
