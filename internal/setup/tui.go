// Package setup provides a terminal wizard that writes a duratrack
// config.yaml.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/duratrack/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

type configYaml struct {
	SeriesFile   string `yaml:"series_file"`
	ReadingsFile string `yaml:"readings_file"`
	JournalDir   string `yaml:"journal_dir"`
	Headless     bool   `yaml:"headless"`
	NavTimeout   string `yaml:"nav_timeout"`
	PageDelay    string `yaml:"page_delay"`
	FetchTries   int    `yaml:"fetch_tries"`
}

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	var (
		seriesFile    string
		readingsFile  string
		journalDir    string
		headless      bool
		navTimeoutStr string
		confirm       bool
	)

	// defaults
	seriesFile = config.DefaultSeriesFile
	readingsFile = config.DefaultReadingsFile
	journalDir = config.DefaultJournalDir
	headless = true
	navTimeoutStr = config.DefaultNavTimeout.String()

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("DURATRACK CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up the duration tracking pipeline.\n"))

	fmt.Println(stepStyle.Render("STEP 1: FILES"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Series file").
				Description("Persisted duration time series (CSV)").
				Value(&seriesFile).
				Validate(notEmpty),
			huh.NewInput().
				Title("Readings file").
				Description("Extraction handoff file (CSV)").
				Value(&readingsFile).
				Validate(notEmpty),
			huh.NewInput().
				Title("Journal directory").
				Description("Run audit trail (WAL)").
				Value(&journalDir).
				Validate(notEmpty),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DURATRACK CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: BROWSER"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run the browser headless?").
				Value(&headless),
			huh.NewInput().
				Title("Navigation timeout").
				Description("Duration string (e.g. 30s, 1m)").
				Value(&navTimeoutStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("DURATRACK CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: CONFIRM"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write config.yaml?").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("Aborted, nothing written.")
		return nil
	}

	out := configYaml{
		SeriesFile:   seriesFile,
		ReadingsFile: readingsFile,
		JournalDir:   journalDir,
		Headless:     headless,
		NavTimeout:   navTimeoutStr,
		PageDelay:    config.DefaultPageDelay.String(),
		FetchTries:   config.DefaultFetchTries,
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile("config.yaml", data, 0644); err != nil {
		return fmt.Errorf("write config.yaml: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("\nconfig.yaml written. Run: duratrack --config config.yaml"))
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}
