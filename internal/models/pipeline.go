package models

import "time"

/**
 *	启动流程的状态，Failed之外的状态只能按顺序前进
 */
type PipelineState string

const (
	StateInit             PipelineState = "Init"
	StateConfigLoaded     PipelineState = "ConfigLoaded"
	StateEnvironmentReady PipelineState = "EnvironmentReady"
	StateRuntimeReady     PipelineState = "RuntimeReady"
	StateApplicationReady PipelineState = "ApplicationReady"
	StateCommandBuilt     PipelineState = "CommandBuilt"
	StateRunning          PipelineState = "Running"
	StateCompleted        PipelineState = "Completed"
	StateFailed           PipelineState = "Failed"
)

// PipelineStates lists the states in pipeline order, Failed last.
var PipelineStates = []PipelineState{
	StateInit,
	StateConfigLoaded,
	StateEnvironmentReady,
	StateRuntimeReady,
	StateApplicationReady,
	StateCommandBuilt,
	StateRunning,
	StateCompleted,
	StateFailed,
}

// Terminal reports whether no further transition is possible.
func (s PipelineState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

/**
 * Launcher status snapshot returned by the status server
 * @property {PipelineState} state - Current pipeline state
 * @property {string} failure - Failure message when state is Failed
 * @property {[]string} command - Built command vector, empty before CommandBuilt
 * @property {*ProcessDetail} process - Child process detail once launched
 * @property {[]ComponentInfo} components - Installed state of runtime and application
 */
type LauncherStatus struct {
	State      PipelineState   `json:"state"`
	Failure    string          `json:"failure,omitempty"`
	StartTime  time.Time       `json:"startTime"`
	Command    []string        `json:"command,omitempty"`
	Process    *ProcessDetail  `json:"process,omitempty"`
	Components []ComponentInfo `json:"components,omitempty"`
}
