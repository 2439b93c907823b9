// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package generator_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/hooks"
	"github.com/api2spec/swaggen/pkg/types"
)

func loadPetstore(t *testing.T) *types.OpenAPI {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "petstore.yaml"))
	require.NoError(t, err)

	var doc types.OpenAPI
	require.NoError(t, yaml.Unmarshal(data, &doc))
	return &doc
}

func runnerConfig(output string, applyZod bool) generator.Config {
	cfg := generator.DefaultConfig()
	cfg.Output = output
	cfg.GenerateResponses = true
	cfg.DefaultResponseAsSuccess = true
	cfg.ExtractRequestParams = true
	cfg.ExtractRequestBody = true
	cfg.ExtractResponseBody = true
	cfg.SingleHTTPClient = true
	cfg.ApplyZodSchemaInAPI = applyZod
	return cfg
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_Files(t *testing.T) {
	dir := t.TempDir()
	result, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, true), hooks.Default())
	require.NoError(t, err)

	var names []string
	for _, f := range result.Files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"Pets.ts", "Store.ts", "data-contracts.ts", "http-client.ts"}, names)
	assert.Len(t, result.Routes, 4)
	for _, r := range result.Routes {
		assert.NotNil(t, r.Preprocessed, r.RouteName)
	}
}

func TestGenerate_ZodValidationEnabled(t *testing.T) {
	dir := t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, true), hooks.Default())
	require.NoError(t, err)

	pets := readFile(t, dir, "Pets.ts")
	assert.Contains(t, pets, "import { createPetPayloadSchema, listPetsDataSchema, showPetByIdDataSchema } from './schema';")
	assert.Contains(t, pets, "import { CreatePetPayload, Error, ListPetsData, ShowPetByIdData } from './data-contracts';")
	assert.Contains(t, pets, "createPetPayloadSchema.parse(data);")
	assert.Contains(t, pets, "response.data = listPetsDataSchema.parse(response.data);")
	assert.Contains(t, pets, "response.data = showPetByIdDataSchema.parse(response.data);")
	assert.Equal(t, 2, strings.Count(pets, "response.data ="))
	assert.NotContains(t, pets, "import { z } from 'zod';")
}

func TestGenerate_ZodValidationDisabled(t *testing.T) {
	dir := t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, false), hooks.Default())
	require.NoError(t, err)

	for _, name := range []string{"Pets.ts", "Store.ts"} {
		content := readFile(t, dir, name)
		assert.NotContains(t, content, ".parse(", name)
		assert.NotContains(t, content, "from './schema'", name)
	}
}

func TestGenerate_Procedures(t *testing.T) {
	dir := t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, true), hooks.Default())
	require.NoError(t, err)

	pets := readFile(t, dir, "Pets.ts")
	assert.Contains(t, pets, "import { ContentType, HttpClient, RequestParams } from './http-client';")
	assert.Contains(t, pets, "export class Pets<SecurityDataType = unknown> {")
	assert.Contains(t, pets, "listPets = async (query: { limit?: number }, params: RequestParams = {}) => {")
	assert.Contains(t, pets, "createPet = async (data: CreatePetPayload, params: RequestParams = {}) => {")
	assert.Contains(t, pets, "showPetById = async (petId: string, params: RequestParams = {}) => {")
	assert.Contains(t, pets, "this.http.request<ListPetsData, Error>({")
	assert.Contains(t, pets, "path: `/pets/${petId}`,")
	assert.Contains(t, pets, "method: 'POST',")
	assert.Contains(t, pets, "type: ContentType.Json,")
	assert.Contains(t, pets, `format: "json",`)
	assert.Contains(t, pets, "secure: true,")
	assert.Contains(t, pets, "query: query,")
	assert.Contains(t, pets, "body: data,")
	assert.Contains(t, pets, "...params,")

	store := readFile(t, dir, "Store.ts")
	assert.Contains(t, store, "export class Store<SecurityDataType = unknown> {")
	assert.Contains(t, store, "import { HttpClient, RequestParams } from './http-client';")
	assert.NotContains(t, store, "secure: true")
}

func TestGenerate_ProcedureDocIndent(t *testing.T) {
	dir := t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, false), hooks.Default())
	require.NoError(t, err)

	pets := readFile(t, dir, "Pets.ts")
	assert.Contains(t, pets, "    this.http = http;\n  }\n\n  /**\n")
	assert.Contains(t, pets, "\n  /**\n   * @tags pets\n   * @name ListPets\n   * @summary List all pets\n")
	assert.NotContains(t, pets, "\n/**")
}

func TestGenerate_QueryKeys(t *testing.T) {
	dir := t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, true), hooks.Default())
	require.NoError(t, err)

	pets := readFile(t, dir, "Pets.ts")
	assert.Contains(t, pets, "export const listPetsKey = (query: { limit?: number }) =>\n  ['pets', query] as const;")
	assert.Contains(t, pets, "export const showPetByIdKey = (petId: string) =>\n  ['pets', petId] as const;")
	assert.NotContains(t, pets, "createPetKey")

	store := readFile(t, dir, "Store.ts")
	assert.Contains(t, store, "export const getInventoryKey = () =>\n  ['store', 'inventory'] as const;")
}

func TestGenerate_DataContracts(t *testing.T) {
	dir := t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(dir, true), hooks.Default())
	require.NoError(t, err)

	contracts := readFile(t, dir, "data-contracts.ts")
	assert.Contains(t, contracts, "export interface Pet {")
	assert.Contains(t, contracts, "  id: number;")
	assert.Contains(t, contracts, "  tag?: string;")
	assert.Contains(t, contracts, "  status?: PetStatus;")
	assert.Contains(t, contracts, `export type PetStatus = "available" | "pending" | "sold";`)
	assert.Contains(t, contracts, "export interface ListPetsParams {")
	assert.Contains(t, contracts, "  limit?: number;")
	assert.Contains(t, contracts, "export type ListPetsData = Pet[];")
	assert.Contains(t, contracts, "export interface CreatePetPayload {")
	assert.Contains(t, contracts, "export type ShowPetByIdData = Pet;")
	assert.Contains(t, contracts, "export type GetInventoryData = Record<string, number>;")
}

func TestGenerate_ExtractEnums(t *testing.T) {
	dir := t.TempDir()
	cfg := runnerConfig(dir, true)
	cfg.ExtractEnums = true

	_, err := generator.Generate(context.Background(), loadPetstore(t), cfg, hooks.Default())
	require.NoError(t, err)

	contracts := readFile(t, dir, "data-contracts.ts")
	assert.Contains(t, contracts, "export enum PetStatus {")
	assert.Contains(t, contracts, `  Available = "available",`)
	assert.Contains(t, contracts, `  Sold = "sold",`)
}

func TestGenerate_FetchClient(t *testing.T) {
	dir := t.TempDir()
	cfg := runnerConfig(dir, false)
	cfg.HTTPClientType = generator.HTTPClientFetch

	_, err := generator.Generate(context.Background(), loadPetstore(t), cfg, hooks.Default())
	require.NoError(t, err)

	client := readFile(t, dir, "http-client.ts")
	assert.Contains(t, client, "export interface HttpResponse<D extends unknown, E extends unknown = unknown>")
	assert.NotContains(t, client, "from 'axios'")
}

func TestNewPlan_HookOrder(t *testing.T) {
	var order []string
	h := generator.Hooks{
		OnPrepareConfig: hooks.PrepareConfig,
		OnCreateRoute: func(r types.Route) types.Route {
			order = append(order, r.Request.Method+" "+r.Request.Path)
			return hooks.PreprocessRoute(r)
		},
	}

	_, err := generator.NewPlan(context.Background(), loadPetstore(t), runnerConfig(t.TempDir(), true), h)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"get /pets",
		"post /pets",
		"get /pets/${petId}",
		"get /store/inventory",
	}, order)
}

func TestNewPlan_PrepareConfigRunsOnce(t *testing.T) {
	calls := 0
	h := hooks.Default()
	h.OnPrepareConfig = func(cfg generator.Config) generator.Config {
		calls++
		return hooks.PrepareConfig(cfg)
	}

	plan, err := generator.NewPlan(context.Background(), loadPetstore(t), runnerConfig(t.TempDir(), true), h)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, plan.Config.ProcedureHelpers)
}

func TestNewPlan_Routes(t *testing.T) {
	plan, err := generator.NewPlan(context.Background(), loadPetstore(t), runnerConfig(t.TempDir(), true), hooks.Default())
	require.NoError(t, err)
	require.Len(t, plan.Routes, 4)

	list := plan.Routes[0]
	assert.Equal(t, "listPets", list.RouteName)
	assert.Equal(t, "Pets", list.ModuleName)
	assert.Equal(t, "ListPetsData", list.Response.Type)
	assert.Equal(t, "Error", list.Response.ErrorType)
	assert.True(t, list.Request.Security)
	require.NotNil(t, list.Request.RequestParams)
	assert.Equal(t, "ListPetsParams", list.Request.RequestParams.Name)

	create := plan.Routes[1]
	require.NotNil(t, create.Request.Payload)
	assert.Equal(t, types.Arg{Name: "data", Type: "CreatePetPayload"}, *create.Request.Payload)
	assert.Equal(t, "void", create.Response.Type)
	assert.Equal(t, types.ContentKindJSON, create.Request.ContentKind)

	show := plan.Routes[2]
	assert.Equal(t, "/pets/${petId}", show.Request.Path)
	assert.Equal(t, []types.Arg{{Name: "petId", Type: "string"}}, show.Request.Parameters)
	assert.Nil(t, show.Request.Query)

	inventory := plan.Routes[3]
	assert.Equal(t, "Store", inventory.ModuleName)
	assert.False(t, inventory.Request.Security)

	require.Len(t, plan.Modules, 2)
	assert.Equal(t, "Pets", plan.Modules[0].Name)
	assert.Len(t, plan.Modules[0].Routes, 3)
}

func TestNewPlan_MissingHelpers(t *testing.T) {
	_, err := generator.NewPlan(context.Background(), loadPetstore(t), runnerConfig(t.TempDir(), true), generator.Hooks{})
	require.ErrorIs(t, err, generator.ErrMissingHelpers)
}

func TestNewPlan_MissingPreprocessed(t *testing.T) {
	h := generator.Hooks{OnPrepareConfig: hooks.PrepareConfig}
	_, err := generator.NewPlan(context.Background(), loadPetstore(t), runnerConfig(t.TempDir(), true), h)
	require.ErrorIs(t, err, generator.ErrNotPreprocessed)
}

func TestNewPlan_NilDocument(t *testing.T) {
	_, err := generator.NewPlan(context.Background(), nil, generator.DefaultConfig(), hooks.Default())
	require.ErrorIs(t, err, generator.ErrNilDocument)
}

func TestNewPlan_InvalidClient(t *testing.T) {
	cfg := generator.DefaultConfig()
	cfg.HTTPClientType = "xhr"
	_, err := generator.NewPlan(context.Background(), loadPetstore(t), cfg, hooks.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xhr")
}

func TestNewPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := generator.NewPlan(ctx, loadPetstore(t), runnerConfig(t.TempDir(), true), hooks.Default())
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewPlan_SchemaCollisionWarns(t *testing.T) {
	doc := &types.OpenAPI{
		OpenAPI: "3.0.3",
		Components: &types.Components{Schemas: map[string]*types.Schema{
			"UserDto":  {Type: "string"},
			"user_dto": {Type: "number"},
		}},
	}

	var buf bytes.Buffer
	cfg := generator.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	_, err := generator.NewPlan(context.Background(), doc, cfg, hooks.Default())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "schema name collision")
	assert.Contains(t, buf.String(), "userDtoSchema")
}

func TestGenerate_Deterministic(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	_, err := generator.Generate(context.Background(), loadPetstore(t), runnerConfig(first, true), hooks.Default())
	require.NoError(t, err)
	_, err = generator.Generate(context.Background(), loadPetstore(t), runnerConfig(second, true), hooks.Default())
	require.NoError(t, err)

	for _, name := range []string{"Pets.ts", "Store.ts", "data-contracts.ts", "http-client.ts"} {
		assert.Equal(t, readFile(t, first, name), readFile(t, second, name), name)
	}
}
