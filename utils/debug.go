package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DebugOptions configures artifact capture for a search run.
type DebugOptions struct {
	Enabled      bool
	OutputDir    string
	SaveToFile   bool
	LogPrompts   bool
	LogResponses bool
}

// DebugManager captures prompts, responses, and candidate snapshots produced
// during a format search so runs can be inspected after the fact.
type DebugManager struct {
	options   DebugOptions
	logger    Logger
	outputDir string
}

// NewDebugManager creates a new debug manager with the given options.
func NewDebugManager(options DebugOptions) *DebugManager {
	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(".", "debug_output")
	}

	if options.SaveToFile && options.Enabled {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			log.Printf("Warning: failed to create debug output directory: %v", err)
		}
	}

	return &DebugManager{
		options:   options,
		logger:    NewLogger(LogLevelDebug),
		outputDir: outputDir,
	}
}

// Log logs a debug message if debugging is enabled.
func (dm *DebugManager) Log(format string, args ...any) {
	if !dm.options.Enabled {
		return
	}

	message := fmt.Sprintf(format, args...)
	dm.logger.Debug(message)

	if dm.options.SaveToFile {
		dm.saveToFile("debug.log", message)
	}
}

// SaveCandidate saves a scored candidate snapshot as JSON.
func (dm *DebugManager) SaveCandidate(index int, data any) {
	if !dm.options.Enabled || !dm.options.SaveToFile {
		return
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		dm.logger.Error("Failed to marshal candidate snapshot", "error", err, "index", index)
		return
	}

	filename := fmt.Sprintf("candidate_%03d_%s.json", index, time.Now().Format("20060102_150405"))
	dm.saveToFile(filename, string(payload))
}

// LogPrompt logs a rendered prompt if prompt logging is enabled.
func (dm *DebugManager) LogPrompt(name string, prompt string) {
	if !dm.options.Enabled || !dm.options.LogPrompts {
		return
	}

	dm.Log("Prompt [%s]: %s", name, prompt)
	if dm.options.SaveToFile {
		filename := fmt.Sprintf("prompt_%s_%s.txt", name, time.Now().Format("20060102_150405"))
		dm.saveToFile(filename, prompt)
	}
}

// LogResponse logs a collaborator response if response logging is enabled.
func (dm *DebugManager) LogResponse(name string, response string) {
	if !dm.options.Enabled || !dm.options.LogResponses {
		return
	}

	dm.Log("Response [%s]: %s", name, response)
	if dm.options.SaveToFile {
		filename := fmt.Sprintf("response_%s_%s.txt", name, time.Now().Format("20060102_150405"))
		dm.saveToFile(filename, response)
	}
}

// IsEnabled returns whether debugging is enabled.
func (dm *DebugManager) IsEnabled() bool {
	return dm.options.Enabled
}

func (dm *DebugManager) saveToFile(filename string, content string) {
	path := filepath.Join(dm.outputDir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		dm.logger.Error("Failed to open file for debug output", "error", err, "file", path)
		return
	}
	defer file.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(file, "[%s] %s\n", timestamp, content); err != nil {
		dm.logger.Error("Failed to write debug output", "error", err, "file", path)
	}
}
