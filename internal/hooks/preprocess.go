// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package hooks provides the generator hooks that prepare the helper tables
// and annotate every route for the client templates.
package hooks

import (
	"slices"

	"github.com/api2spec/swaggen/internal/util"
	"github.com/api2spec/swaggen/pkg/types"
)

// defaultQueryName is the argument name used when the query object is unnamed.
const defaultQueryName = "query"

// PreprocessRoute returns a copy of route with its Preprocessed annotations set.
// The input route is left untouched.
func PreprocessRoute(route types.Route) types.Route {
	req := route.Request
	responseType := route.Response.Type

	pre := &types.Preprocessed{
		IsGetMethod:             util.IsGetMethod(req.Method),
		QueryKey:                util.BuildQueryKey(req.Path),
		IsPrimitiveResponseType: util.IsPrimitiveType(responseType),
		Procedure: types.Procedure{
			QueryName:      queryName(req.Query),
			PathParams:     append(make([]types.Arg, 0, len(req.Parameters)), req.Parameters...),
			QueryExists:    req.Query != nil,
			SecurityExists: req.Security,
		},
	}

	if req.Payload != nil {
		name := util.GetSchemaName(req.Payload.Type)
		pre.PayloadSchemaName = &name
		if req.Payload.Name != "" {
			payloadName := req.Payload.Name
			pre.Procedure.PayloadName = &payloadName
		}
	}
	if responseType != "" {
		name := util.GetSchemaName(responseType)
		pre.ResponseSchemaName = &name
	}

	out := route
	out.Tags = slices.Clone(route.Tags)
	out.Request.Parameters = slices.Clone(req.Parameters)
	out.Preprocessed = pre
	return out
}

func queryName(query *types.Arg) string {
	if query != nil && query.Name != "" {
		return query.Name
	}
	return defaultQueryName
}
