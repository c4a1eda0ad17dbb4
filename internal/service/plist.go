package service

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/llamabar/internal/errors"
	"howett.net/plist"
)

// AgentPlist is the LaunchAgent definition written for llama-swap.
type AgentPlist struct {
	Label                string            `plist:"Label"`
	ProgramArguments     []string          `plist:"ProgramArguments"`
	RunAtLoad            bool              `plist:"RunAtLoad"`
	KeepAlive            bool              `plist:"KeepAlive"`
	StandardOutPath      string            `plist:"StandardOutPath,omitempty"`
	StandardErrorPath    string            `plist:"StandardErrorPath,omitempty"`
	EnvironmentVariables map[string]string `plist:"EnvironmentVariables,omitempty"`
}

// AgentSpec is what Install needs to describe the agent.
type AgentSpec struct {
	Label      string
	Binary     string
	ConfigPath string
	Listen     string
	LogPath    string
}

// agentPATH lets llama-swap find Homebrew-installed llama-server.
const agentPATH = "/opt/homebrew/bin:/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin"

// NewAgentPlist builds the plist for spec.
func NewAgentPlist(spec AgentSpec) AgentPlist {
	args := []string{spec.Binary}
	if spec.ConfigPath != "" {
		args = append(args, "--config", spec.ConfigPath)
	}
	if spec.Listen != "" {
		args = append(args, "--listen", spec.Listen)
	}

	return AgentPlist{
		Label:                spec.Label,
		ProgramArguments:     args,
		RunAtLoad:            true,
		KeepAlive:            true,
		StandardOutPath:      spec.LogPath,
		StandardErrorPath:    spec.LogPath,
		EnvironmentVariables: map[string]string{"PATH": agentPATH},
	}
}

// Encode renders p as an XML property list.
func (p AgentPlist) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := plist.NewEncoderForFormat(&buf, plist.XMLFormat)
	enc.Indent("\t")
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePlist writes p to path, creating ~/Library/LaunchAgents if needed.
func WritePlist(path string, p AgentPlist) error {
	data, err := p.Encode()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrService, "Failed to encode LaunchAgent plist", "")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to create directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrService,
			"Failed to create file",
			"Check permissions on "+path)
	}
	return nil
}

// ReadPlist decodes the LaunchAgent at path.
func ReadPlist(path string) (AgentPlist, error) {
	var p AgentPlist
	data, err := os.ReadFile(path)
	if err != nil {
		return p, errors.WrapWithCode(err, errors.ErrService, "Failed to read LaunchAgent plist", "")
	}
	if _, err := plist.Unmarshal(data, &p); err != nil {
		return p, errors.WrapWithCode(err, errors.ErrService,
			"Failed to parse LaunchAgent plist",
			"Reinstall the service from the menu")
	}
	return p, nil
}
