// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package hooks

import (
	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/util"
)

var apiHelpers = generator.APIHelpers{
	GetSchemaNames: util.GetSchemaNames,
}

var procedureHelpers = generator.ProcedureHelpers{
	BuildWrapperArgs:          BuildWrapperArgs,
	BuildQueryKeyProps:        BuildQueryKeyProps,
	BuildContentTypeVariables: BuildContentTypeVariables,
	BuildReturnType:           BuildReturnType,
	BuildRequestConfigParam:   BuildRequestConfigParam,
}

var commonHelpers = generator.CommonHelpers{
	ToCamelCase:         util.ToCamelCase,
	ToPascalCase:        util.ToPascalCase,
	BuildQueryKey:       util.BuildQueryKey,
	IsGetMethod:         util.IsGetMethod,
	IsPrimitiveType:     util.IsPrimitiveType,
	GetSchemaName:       util.GetSchemaName,
	GetSchemaValidation: util.GetSchemaValidation,
}

// PrepareConfig returns a copy of cfg with the helper tables attached.
// A table already present on cfg is kept.
func PrepareConfig(cfg generator.Config) generator.Config {
	out := cfg
	if out.APIHelpers == nil {
		h := apiHelpers
		out.APIHelpers = &h
	}
	if out.ProcedureHelpers == nil {
		h := procedureHelpers
		out.ProcedureHelpers = &h
	}
	if out.CommonHelpers == nil {
		h := commonHelpers
		out.CommonHelpers = &h
	}
	return out
}

// Default returns the hooks a standard generation run registers.
func Default() generator.Hooks {
	return generator.Hooks{
		OnPrepareConfig: PrepareConfig,
		OnCreateRoute:   PreprocessRoute,
	}
}
