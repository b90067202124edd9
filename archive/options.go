// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Options collects the loosely-typed knobs a CLI collaborator gathers from
// flags/config and hands to the archive package. DecodeOptions exists so
// that boundary, rather than every call site, owns the type coercion.
type Options struct {
	MaxVolumeBytes int64  `mapstructure:"max_volume_bytes"`
	Password       string `mapstructure:"password"`
	MaxPending     int    `mapstructure:"max_pending"`
}

// DecodeOptions coerces a generic, externally-sourced map (flag values,
// parsed config) into Options.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	if err := mapstructure.Decode(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("archive: unable to decode options: %w", err)
	}
	return opts, nil
}
