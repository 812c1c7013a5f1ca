package models

import "time"

/**
 *	可安装组件的类别
 */
type ComponentKind string

const (
	ComponentRuntime     ComponentKind = "runtime"
	ComponentApplication ComponentKind = "application"
)

/**
 * Installation record persisted next to an installed component
 * @property {ComponentKind} kind - Which component was installed
 * @property {string} version - Version that was installed
 * @property {time.Time} installedAt - When the installation finished
 */
type InstallationRecord struct {
	Kind        ComponentKind `json:"kind"`
	Version     string        `json:"version"`
	InstalledAt time.Time     `json:"installed_at"`
}

/**
 * Component object (serialized to JSON format)
 * @property {ComponentKind} name - Component kind
 * @property {string} wanted - Configured version
 * @property {string} marker - Marker file that proves the component is present
 * @property {bool} installed - Whether the marker exists and the record matches
 * @property {*InstallationRecord} record - Persisted record, nil when absent
 */
type ComponentInfo struct {
	Name      ComponentKind       `json:"name"`
	Wanted    string              `json:"wanted"`
	Marker    string              `json:"marker"`
	Installed bool                `json:"installed"`
	Record    *InstallationRecord `json:"record,omitempty"`
}
