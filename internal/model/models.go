// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
package model

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelInfo describes one selectable model identifier.
// The settings UI restricts its picker to this catalog, but the stored
// value itself is free text and is never validated against it.
type ModelInfo struct {
	// ID is the identifier stored in settings
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Description is a brief explanation shown in the picker
	Description string `json:"description"`
}

// DefaultModelID is the model selected out of the box.
const DefaultModelID = "gpt-4"

// Models is the fixed catalog of model identifiers offered by the UI,
// in picker display order.
var Models = []ModelInfo{
	{
		ID:          "gpt-4",
		Name:        "GPT-4",
		Description: "Most capable, best for complex tasks",
	},
	{
		ID:          "gpt-3.5-turbo",
		Name:        "GPT-3.5 Turbo",
		Description: "Fast and inexpensive",
	},
	{
		ID:          "claude-3",
		Name:        "Claude 3",
		Description: "Strong reasoning and long context",
	},
	{
		ID:          "llama-3",
		Name:        "Llama 3",
		Description: "Open weights, runs locally",
	},
}

// GetModelInfo looks up a catalog entry by ID.
// Unknown IDs return a bare entry so free-text settings still display.
func GetModelInfo(id string) ModelInfo {
	for _, m := range Models {
		if m.ID == id {
			return m
		}
	}
	return ModelInfo{ID: id, Name: id}
}

// IsCatalogModel reports whether the ID belongs to the fixed catalog.
func IsCatalogModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}
