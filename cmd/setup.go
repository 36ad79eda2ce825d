package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively create the service configuration",
	Long: `Walk through the pipeline settings and write a config file.

All values have working defaults; the prompts matter mostly for the external
inference integration, which is disabled until pointed at a real command.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return runSetupWithPrompter(cmd, DefaultPrompter)
}

func runSetupWithPrompter(cmd *cobra.Command, p Prompter) error {
	out := cmd.OutOrStdout()
	c := config.Default()

	fmt.Fprintln(out, "AllanAI service setup")
	fmt.Fprintln(out)

	addr, err := p.Input("HTTP listen address:", c.Server.Address)
	if err != nil {
		return err
	}
	c.Server.Address = addr

	videoDir, err := p.Input("Video storage directory:", c.Storage.VideoDirectory)
	if err != nil {
		return err
	}
	c.Storage.VideoDirectory = videoDir

	enabled, err := p.Confirm("Enable the external inference process?", c.Inference.Enabled)
	if err != nil {
		return err
	}
	c.Inference.Enabled = enabled

	if enabled {
		if c.Inference.WorkingDirectory, err = p.Input("Inference working directory:", c.Inference.WorkingDirectory); err != nil {
			return err
		}
		if c.Inference.Command, err = p.Input("Inference command template:", c.Inference.Command); err != nil {
			return err
		}
		if c.Inference.WeightsPath, err = p.Input("Model weights path:", c.Inference.WeightsPath); err != nil {
			return err
		}
		conf, err := promptFloat(p, "Confidence threshold (0-1):", c.Inference.ConfidenceThreshold)
		if err != nil {
			return err
		}
		c.Inference.ConfidenceThreshold = conf
		timeout, err := promptInt(p, "Process timeout in seconds:", c.Inference.TimeoutSeconds)
		if err != nil {
			return err
		}
		c.Inference.TimeoutSeconds = timeout
	}

	threshold, err := promptFloat(p, "Motion threshold for the heuristic analyzer:", c.Heuristic.MotionThreshold)
	if err != nil {
		return err
	}
	c.Heuristic.MotionThreshold = threshold

	workers, err := promptInt(p, "Max concurrent processing workers:", c.Workers.MaxSize)
	if err != nil {
		return err
	}
	c.Workers.MaxSize = workers

	if err := os.MkdirAll(filepath.Dir(cfgFile), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.Save(c, cfgFile); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration written to %s\n", cfgFile)
	return nil
}

func promptFloat(p Prompter, message string, def float64) (float64, error) {
	s, err := p.Input(message, strconv.FormatFloat(def, 'g', -1, 64))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}

func promptInt(p Prompter, message string, def int) (int, error) {
	s, err := p.Input(message, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}
