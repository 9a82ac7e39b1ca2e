package config

import (
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Render encodes cfg as formatted HCL.
func Render(cfg *Config) []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(cfg, f.Body())
	return hclwrite.Format(f.Bytes())
}

// Starter returns the configuration written by "countdown init": the
// defaults with the milestone and motivation lists spelled out.
func Starter() *Config {
	cfg := DefaultConfig()
	ms, _ := cfg.MilestoneList()
	for _, m := range ms {
		cfg.Milestones = append(cfg.Milestones, MilestoneConfig{
			Days:  strconv.Itoa(m.ThresholdDays),
			Label: m.Label,
		})
	}
	cfg.Motivation = append([]string(nil), cfg.Messages()...)
	return cfg
}
