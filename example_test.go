package fittrack_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aretw0/fittrack"
	"github.com/aretw0/fittrack/pkg/date"
	"github.com/aretw0/fittrack/pkg/reference"
)

func Example() {
	dir, err := os.MkdirTemp("", "fittrack-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	foods := reference.New("food", map[string]float64{"Apple": 52, "Rice": 130})
	activities := reference.New("exercise", map[string]float64{"Running": 9.8})
	now := func() time.Time { return time.Date(2024, time.January, 7, 12, 0, 0, 0, time.UTC) }

	svc, err := fittrack.New(dir,
		fittrack.WithFoodTable(foods),
		fittrack.WithExerciseTable(activities),
		fittrack.WithClock(now),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	day := date.MustParse("2024-01-06")
	if _, err := svc.LogFood(ctx, "alice", day, "Apple", 150); err != nil {
		log.Fatal(err)
	}
	if _, err := svc.LogFood(ctx, "alice", day, "Rice", 200); err != nil {
		log.Fatal(err)
	}
	if _, err := svc.LogExercise(ctx, "alice", day, "Running", 30, 70); err != nil {
		log.Fatal(err)
	}

	week, err := svc.Overview(ctx, "alice", 7)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: in %.1f kcal, out %.1f kcal, net %.1f kcal\n", week.Window(), week.Intake.Total, week.Burned.Total, week.Net)
	fmt.Printf("top food: %s\n", week.TopFoods[0].Key)
	// Output:
	// 2023-12-31..2024-01-07: in 338.0 kcal, out 343.0 kcal, net -5.0 kcal
	// top food: Rice
}

func ExampleWithReadOnly() {
	dir, err := os.MkdirTemp("", "fittrack-readonly")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	svc, err := fittrack.New(dir, fittrack.WithReadOnly(true))
	if err != nil {
		log.Fatal(err)
	}

	err = svc.RecordDay(context.Background(), "alice", fittrack.DailySummary{Date: date.MustParse("2024-01-06"), InCal: 1800})
	fmt.Println(err)
	// Output:
	// repository is in read-only mode
}
