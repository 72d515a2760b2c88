package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cairoplug/internal/config"
	"cairoplug/internal/contract"
	"cairoplug/internal/plugin"
	"cairoplug/internal/prof"
	"cairoplug/internal/trace"
)

// runEnv is what every subcommand needs after flags and config are resolved.
type runEnv struct {
	cfg       config.Config
	suite     plugin.Suite
	color     bool
	heartbeat time.Duration
}

// prepare resolves config and flags, installs the tracer into the command context and
// builds the plugin suite. The returned cleanup stops profiling and flushes and closes
// the tracer.
func prepare(cmd *cobra.Command) (*runEnv, func(), error) {
	flags := cmd.Flags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Resolve(configPath, ".")
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("trace-level") {
		if cfg.Trace.Level, err = flags.GetString("trace-level"); err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
	}
	if flags.Changed("trace-output") {
		if cfg.Trace.Output, err = flags.GetString("trace-output"); err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-output flag: %w", err)
		}
	}

	useColor, err := resolveColor(cmd, cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}

	tc, err := cfg.Trace.TracerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace settings: %w", err)
	}
	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	profOpts, err := profileOptions(cmd)
	if err != nil {
		_ = tracer.Close()
		return nil, nil, err
	}
	session, err := prof.Start(profOpts)
	if err != nil {
		_ = tracer.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}

	repo := plugin.NewRepository()
	if err := repo.Add(contract.New(contract.OptionsFromConfig(cfg))); err != nil {
		cleanup()
		return nil, nil, err
	}
	suite, err := repo.Suite()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &runEnv{cfg: cfg, suite: suite, color: useColor, heartbeat: tc.Heartbeat}, cleanup, nil
}

// resolveColor reads --color; auto enables colour only on a terminal.
func resolveColor(cmd *cobra.Command, out io.Writer) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	var on bool
	switch mode {
	case "on":
		on = true
	case "off":
		on = false
	case "auto", "":
		f, ok := out.(*os.File)
		on = ok && isTerminal(f)
	default:
		return false, fmt.Errorf("invalid --color %q (expected: auto|on|off)", mode)
	}
	color.NoColor = !on
	return on, nil
}

func profileOptions(cmd *cobra.Command) (prof.Options, error) {
	var opts prof.Options
	var err error
	flags := cmd.Flags()
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return opts, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return opts, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return opts, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return opts, nil
}
