package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawCSV = "\uFEFFAÑO,REGIÓN,DEPARTAMENTO,AUTORIDAD AMBIENTAL,SECTOR,SUBSECTOR,DESCRIPCIÓN\n" +
	"2021,andina,antioquia,CORANTIOQUIA,Agroindustria,,Planta de compostaje\n" +
	"2022,,valle,CVC,Ecoturismo,,Senderismo guiado\n"

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("DATA_FILE", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, ServiceName+" version "+Version)
}

func TestCleanCommand(t *testing.T) {
	dir := isolateEnv(t)
	in := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(in, []byte(rawCSV), 0o600))
	out := filepath.Join(dir, "clean.csv")

	stdout, err := execute(t, "clean", "--source", in, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 rows (1 aligned)")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := map[string]int{}
	for i, c := range records[0] {
		header[c] = i
	}
	require.Contains(t, header, "BASURA 0")
	assert.Equal(t, "Sí", records[1][header["BASURA 0"]])
	assert.Equal(t, "No", records[2][header["BASURA 0"]])
	assert.Equal(t, "PACÍFICO", records[2][header["REGIÓN"]])
	assert.Equal(t, "VALLE DEL CAUCA", records[2][header["DEPARTAMENTO"]])
}

func TestCleanCommandRejectsUnknownExtension(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "clean", "--source", "raw.csv", "--out", "clean.json")
	require.Error(t, err)
}

func TestCleanCommandFetchFailure(t *testing.T) {
	dir := isolateEnv(t)
	_, err := execute(t, "clean", "--source", filepath.Join(dir, "absent.csv"), "--out", filepath.Join(dir, "clean.csv"))
	require.Error(t, err)
}
