package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/reveal"
	"github.com/sant0-9/healthiq/internal/segment"
	"github.com/sant0-9/healthiq/internal/topic"
)

var (
	recommendTopic string
	recommendJSON  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [profile-id]",
	Short: "Print recommendations for one profile",
	Long: `Generates recommendations for a stored profile.

Without --topic both sections are printed at once. With --topic the matching
lines are revealed character by character, the way the viewer shows them.

Example:
  healthiq recommend 6f1c... --topic cardio`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendTopic, "topic", "t", "", "Reveal one topic, e.g. \"Cardio Routine\"")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the raw diet/exercise JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pl, _ := e.newPipeline(ctx)
	out := cmd.OutOrStdout()

	if recommendTopic != "" {
		t, ok := topic.Lookup(recommendTopic)
		if !ok {
			return fmt.Errorf("unknown topic %q, try one of: %v %v", recommendTopic,
				topic.Names(topic.Diet), topic.Names(topic.Exercise))
		}
		return revealTopic(ctx, e, pl, args[0], t)
	}

	rec, err := pl.Recommend(ctx, args[0])
	if err != nil && !pipeline.IsUpstream(err) {
		return err
	}
	if err != nil {
		e.log.Warn("showing fallback", "error", err)
	}

	if recommendJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintln(out, "Diet")
	for _, line := range segment.Segment(rec.Diet, "") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintln(out, "\nExercise")
	for _, line := range segment.Segment(rec.Exercise, "") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	return nil
}

func revealTopic(ctx context.Context, e *env, rec pipeline.Recommender, profileID string, t topic.Topic) error {
	sink := reveal.NewWriterSink(os.Stdout)
	sched := reveal.NewScheduler(nil, e.cfg.Reveal.Interval, sink)
	ctrl := pipeline.NewController(rec, sched, e.cfg.Reveal.FilterTopics, e.log)
	defer ctrl.Close()

	fmt.Printf("%s\n\n", t.Name)
	ctrl.SelectTopic(ctx, profileID, t)

	select {
	case <-sink.Done():
		return nil
	case <-ctx.Done():
		fmt.Println()
		return ctx.Err()
	}
}
