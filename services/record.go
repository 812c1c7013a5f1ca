package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"server-launcher/internal/models"
	"server-launcher/internal/utils"
)

// RecordFileName is written into a component's install directory after a successful install.
const RecordFileName = ".install-record.json"

/**
 * Read the installation record of a component
 * @param {string} dir - Component install directory
 * @returns {*models.InstallationRecord} Returns nil without error when no record exists
 */
func ReadRecord(dir string) (*models.InstallationRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, RecordFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec models.InstallationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse '%s': %w", filepath.Join(dir, RecordFileName), err)
	}
	return &rec, nil
}

/**
 * Persist the installation record of a component
 * @param {string} dir - Component install directory
 * @param {models.InstallationRecord} rec - Record to write
 * @description
 * - 先写临时文件再改名，避免中断时留下半个记录
 */
func WriteRecord(dir string, rec models.InstallationRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fname := filepath.Join(dir, RecordFileName)
	tmp := fname + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fname)
}

func newRecord(kind models.ComponentKind, version string) models.InstallationRecord {
	return models.InstallationRecord{
		Kind:        kind,
		Version:     version,
		InstalledAt: time.Now().UTC(),
	}
}

/**
 * Inspect whether a component is installed at the wanted version
 * @param {models.ComponentKind} kind - Component kind
 * @param {string} dir - Install directory holding the record
 * @param {string} marker - File whose presence proves the component exists
 * @param {string} wanted - Configured version
 * @returns {models.ComponentInfo} Returns the component state
 * @returns {string} Reason the component is not installed, empty when installed
 */
func inspectComponent(kind models.ComponentKind, dir, marker, wanted string) (models.ComponentInfo, string) {
	info := models.ComponentInfo{
		Name:   kind,
		Wanted: wanted,
		Marker: marker,
	}
	rec, err := ReadRecord(dir)
	if err != nil {
		return info, fmt.Sprintf("installation record unreadable: %v", err)
	}
	info.Record = rec
	if _, err := os.Stat(marker); err != nil {
		return info, fmt.Sprintf("'%s' not found", marker)
	}
	if rec == nil {
		return info, "no installation record"
	}
	if rec.Kind != kind {
		return info, fmt.Sprintf("record belongs to '%s'", rec.Kind)
	}
	if !utils.SameVersion(rec.Version, wanted) {
		return info, fmt.Sprintf("installed version %s, wanted %s", rec.Version, wanted)
	}
	info.Installed = true
	return info, ""
}
