/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

// Package wizard collects deployment configuration interactively.
package wizard

import (
	stderrors "errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the operator cancels a prompt (Esc/Ctrl+C).
var ErrAborted = stderrors.New("cancelled by operator")

// UI defines the interaction primitives the wizard needs. Tests substitute
// a scripted implementation.
type UI interface {
	Select(title string, options []string, value *string) error
	MultiSelect(title string, options []string, selected *[]string) error
	Confirm(title string, value *bool) error
	Input(title string, value *string) error
	SecretInput(title string, value *string) error
}

// HuhUI implements UI with charmbracelet/huh forms.
type HuhUI struct{}

func NewHuhUI() *HuhUI { return &HuhUI{} }

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func stringOptions(options []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return opts
}

func (ui *HuhUI) Select(title string, options []string, value *string) error {
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(stringOptions(options)...).
			Value(value),
	)))
}

func (ui *HuhUI) MultiSelect(title string, options []string, selected *[]string) error {
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title(title).
			Filterable(false).
			Options(stringOptions(options)...).
			Value(selected),
	)))
}

func (ui *HuhUI) Confirm(title string, value *bool) error {
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Value(value),
	)))
}

func (ui *HuhUI) Input(title string, value *string) error {
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Value(value),
	)))
}

func (ui *HuhUI) SecretInput(title string, value *string) error {
	return runForm(huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Value(value).
			EchoMode(huh.EchoModePassword),
	)))
}
