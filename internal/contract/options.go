package contract

import (
	"cairoplug/internal/config"
	"cairoplug/internal/plugin"
	"cairoplug/internal/rewrite"
)

// Options is everything the dispatcher needs beyond the item itself.
type Options struct {
	ID             plugin.PackageID
	Attribute      string // trigger
	Wrapper        string // outer attribute of the generated module
	AuxItem        string // appended after the rewritten body; empty for none
	DisallowedImpl string // impl name reported as an error; empty disables the rule
	Rewrite        rewrite.Options
	MaxDiagnostics int
}

const defaultMaxDiagnostics = 256

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ID: plugin.PackageID{
			Name:    cfg.Plugin.Name,
			Version: cfg.Plugin.Version,
			Source:  plugin.GitSource(cfg.Plugin.Repository, "v"+cfg.Plugin.Version),
		},
		Attribute:      cfg.Contract.Attribute,
		Wrapper:        cfg.Contract.Wrapper,
		AuxItem:        cfg.Contract.AuxItem,
		DisallowedImpl: cfg.Rules.DisallowedImpl,
		Rewrite: rewrite.Options{
			Convention: rewrite.Convention{
				MarkerName: cfg.Receiver.MarkerName,
				MarkerType: cfg.Receiver.MarkerType,
				Mutable:    cfg.Receiver.Mutable,
				Readonly:   cfg.Receiver.Readonly,
			},
			Injected: append([]string(nil), cfg.Rules.Injected...),
		},
		MaxDiagnostics: defaultMaxDiagnostics,
	}
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}
