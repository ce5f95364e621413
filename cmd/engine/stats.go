package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-engine/internal/platform/tui"
	"github.com/vovakirdan/tui-engine/internal/registry"
	"github.com/vovakirdan/tui-engine/internal/storage"
)

var (
	flagStatsTUI   bool
	flagStatsLimit int
	flagStatsClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [scene]",
	Short: "Show recorded render sessions",
	Long: `Display recent render sessions and aggregate frame statistics.
Without a scene, sessions of every scene are listed.

Examples:
  engine stats
  engine stats spinner --limit 20
  engine stats --tui
  engine stats orbit --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsTUI, "tui", false, "Browse sessions interactively")
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of sessions to list")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete recorded sessions")
}

func runStats(_ *cobra.Command, args []string) {
	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
		if !registry.Exists(sceneID) {
			exitErr("unknown scene %q\nRun 'engine list' to see available scenes.", sceneID)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("%v", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		exitErr("opening statistics database: %v", err)
	}
	defer store.Close()

	if flagStatsClear {
		if err := store.ClearSessions(sceneID); err != nil {
			exitErr("%v", err)
		}
		fmt.Println("Sessions cleared.")
		return
	}

	if flagStatsTUI {
		width, height := terminalSize()
		if _, err := tui.RunStats(store, sceneID, width, height); err != nil {
			exitErr("%v", err)
		}
		return
	}

	if err := printStats(store, sceneID, flagStatsLimit); err != nil {
		exitErr("%v", err)
	}
}

func printStats(store *storage.Store, sceneID string, limit int) error {
	sessions, err := store.RecentSessions(sceneID, limit)
	if err != nil {
		return err
	}

	title := "all scenes"
	if sceneID != "" {
		title = registry.Title(sceneID)
	}
	fmt.Printf("Render Sessions - %s\n", title)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'engine run <scene>' to record one.")
		return nil
	}

	// Print header
	fmt.Printf("  %-16s  %-8s  %-10s  %-9s  %8s  %7s  %7s  %6s\n",
		"Date", "Scene", "User", "Size", "Frames", "Avg FPS", "Max ms", "Faults")
	fmt.Printf("  %-16s  %-8s  %-10s  %-9s  %8s  %7s  %7s  %6s\n",
		"----", "-----", "----", "----", "------", "-------", "------", "------")

	for _, s := range sessions {
		fmt.Printf("  %-16s  %-8s  %-10s  %-9s  %8d  %7.1f  %7.1f  %6d\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			s.SceneID,
			s.User,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			s.Frames,
			s.AvgFPS(),
			float64(s.MaxFrame)/float64(time.Millisecond),
			s.Faults,
		)
	}

	all, err := store.GetAllSceneStats()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, info := range registry.List() {
		st, ok := all[info.ID]
		if !ok || (sceneID != "" && info.ID != sceneID) {
			continue
		}
		fmt.Printf("  %-8s  %d sessions, %d frames, %s played, last %s\n",
			info.ID, st.Sessions, st.TotalFrames, st.PlayTime.Round(time.Second),
			st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
