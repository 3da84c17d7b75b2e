package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/kraitsura/insight_viewer/pkg/cache"
	"github.com/kraitsura/insight_viewer/pkg/config"
	"github.com/kraitsura/insight_viewer/pkg/detail"
	"github.com/kraitsura/insight_viewer/pkg/export"
	"github.com/kraitsura/insight_viewer/pkg/graph"
	"github.com/kraitsura/insight_viewer/pkg/loader"
	"github.com/kraitsura/insight_viewer/pkg/model"
	"github.com/kraitsura/insight_viewer/pkg/ui"
	"github.com/kraitsura/insight_viewer/pkg/updater"
	"github.com/kraitsura/insight_viewer/pkg/version"
	"github.com/kraitsura/insight_viewer/pkg/watcher"
)

const watchDebounce = 300 * time.Millisecond

func main() {
	file := flag.String("file", "", "Load a graph snapshot from a JSON file instead of the API")
	conversation := flag.String("conversation", "", "Conversation id to fetch from the API")
	apiBase := flag.String("api", "", "Insights API base URL (overrides config)")
	exportPath := flag.String("export", "", "Render the map to this file and exit (no TUI)")
	format := flag.String("format", "", "Export format: svg, png, or both (default: from extension)")
	watch := flag.Bool("watch", false, "Reload the snapshot file when it changes (requires -file)")
	offline := flag.Bool("offline", false, "Serve the conversation from the local cache only")
	showVersion := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("Usage: imv [options]")
		fmt.Println("\nA TUI viewer for conversation insight maps.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println("imv version", version.Version)
		if tag, url, err := updater.CheckForUpdates(); err == nil && tag != "" {
			fmt.Printf("update available: %s (%s)\n", tag, url)
		}
		os.Exit(0)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiBase != "" {
		cfg.APIBaseURL = *apiBase
	}

	if *watch && *file == "" {
		fmt.Println("-watch requires -file")
		os.Exit(1)
	}

	g, err := loadSnapshot(cfg, *file, *conversation, *offline)
	if err != nil {
		fmt.Printf("Error loading insight graph: %v\n", err)
		os.Exit(1)
	}
	if len(g.Nodes) == 0 {
		fmt.Println("The insight graph is empty. Regenerate it once the conversation has content.")
		os.Exit(0)
	}

	if *exportPath != "" {
		if err := exportSnapshot(g, cfg, *exportPath, *format); err != nil {
			fmt.Printf("Error exporting snapshot: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	runViewer(g, cfg, *file, *watch)
}

// loadSnapshot resolves the graph from a file, the cache, or the API,
// prompting for a conversation id when none was given on a terminal.
func loadSnapshot(cfg config.Config, file, conversation string, offline bool) (model.InsightGraph, error) {
	if file != "" {
		return loader.LoadGraph(file)
	}

	if conversation == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return model.InsightGraph{}, fmt.Errorf("no -file or -conversation given")
		}
		prompt := huh.NewInput().
			Title("Conversation id").
			Description("Which conversation's insight map should be opened?").
			Value(&conversation)
		if err := prompt.Run(); err != nil {
			return model.InsightGraph{}, err
		}
		conversation = strings.TrimSpace(conversation)
		if conversation == "" {
			return model.InsightGraph{}, fmt.Errorf("no conversation id entered")
		}
	}

	db, dbErr := cache.Open(cfg.CachePath)
	if dbErr == nil {
		defer db.Close()
	}

	if offline {
		if dbErr != nil {
			return model.InsightGraph{}, fmt.Errorf("open cache: %w", dbErr)
		}
		g, found, err := db.Get(conversation)
		if err != nil {
			return model.InsightGraph{}, err
		}
		if !found {
			return model.InsightGraph{}, fmt.Errorf("conversation %s is not cached; run once without -offline", conversation)
		}
		return g, nil
	}

	client := loader.NewClient(cfg.APIBaseURL)
	g, err := client.FetchGraph(context.Background(), conversation)
	if err != nil {
		// Fall back to the cache so a flaky API still opens something.
		if dbErr == nil {
			if cached, found, cacheErr := db.Get(conversation); cacheErr == nil && found {
				fmt.Printf("API unreachable (%v); showing cached snapshot\n", err)
				return cached, nil
			}
		}
		return model.InsightGraph{}, err
	}

	if dbErr == nil {
		if err := db.Put(g); err != nil {
			fmt.Printf("warning: could not cache snapshot: %v\n", err)
		}
	}
	return g, nil
}

// exportSnapshot renders the default view of the graph to disk. With
// -format both, the svg and png variants render concurrently.
func exportSnapshot(g model.InsightGraph, cfg config.Config, path, format string) error {
	ctrl := graph.NewController(cfg.EngineOptions())
	ctrl.SetSnapshot(g)
	vm := ctrl.ViewModel()

	title := g.ConversationID
	if title == "" {
		title = "insight map"
	}
	hash := cache.ComputeDataHash(g)

	if format != "both" {
		return export.SaveMapSnapshot(export.MapSnapshotOptions{
			Path:     path,
			Format:   format,
			View:     vm,
			Title:    title,
			DataHash: hash,
		})
	}

	base := strings.TrimSuffix(path, ".svg")
	base = strings.TrimSuffix(base, ".png")
	var eg errgroup.Group
	for _, ext := range []string{"svg", "png"} {
		ext := ext
		eg.Go(func() error {
			return export.SaveMapSnapshot(export.MapSnapshotOptions{
				Path:     base + "." + ext,
				Format:   ext,
				View:     vm,
				Title:    title,
				DataHash: hash,
			})
		})
	}
	return eg.Wait()
}

func runViewer(g model.InsightGraph, cfg config.Config, file string, watch bool) {
	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())

	opts := ui.ViewerOptions{
		EngineOpts: cfg.EngineOptions(),
		ExportFn: func(vm *graph.ViewModel) (string, error) {
			name := "insight-map.svg"
			if g.ConversationID != "" {
				name = "insight-map-" + g.ConversationID + ".svg"
			}
			err := export.SaveMapSnapshot(export.MapSnapshotOptions{
				Path:     name,
				View:     vm,
				Title:    g.ConversationID,
				DataHash: cache.ComputeDataHash(g),
			})
			return name, err
		},
	}

	if g.ConversationID != "" {
		opts.DetailClient = detail.NewClient(cfg.APIBaseURL)
		client := loader.NewClient(cfg.APIBaseURL)
		conversationID := g.ConversationID
		opts.ReloadFn = func() tea.Cmd {
			return func() tea.Msg {
				fresh, err := client.Regenerate(context.Background(), conversationID)
				return ui.GraphMsg{Graph: fresh, Err: err}
			}
		}
	}

	m := ui.NewModel(g, theme, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if watch {
		w, err := watcher.New(file, watchDebounce, func() {
			fresh, err := loader.LoadGraph(file)
			p.Send(ui.GraphMsg{Graph: fresh, Err: err})
		})
		if err != nil {
			fmt.Printf("Error watching %s: %v\n", file, err)
			os.Exit(1)
		}
		defer w.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running insight viewer: %v\n", err)
		os.Exit(1)
	}
}
