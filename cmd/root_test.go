package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const h2FCIDUMP = ` &FCI NORB=  2,NELEC= 2,MS2=0,
  ORBSYM=1,1,
  ISYM=1,
 &END
  0.6757101548036D+00   1   1   1   1
  0.1809312700299D+00   2   1   2   1
  0.6645817302574D+00   2   2   1   1
  0.6985999497003D+00   2   2   2   2
 -0.1252477303982D+01   1   1   0   0
 -0.4759344611440D+00   2   2   0   0
  0.7137758743754D+00   0   0   0   0
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSystemConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "system.yaml", "random: {nbasis: 6, seed: 3}\nwavefunction: {kind: doci, nocc_up: 3}\n")
	cfg, err := loadSystemConfig(path)
	require.NoError(t, err)
	assert.Equal(t, RandomConfig{NBasis: 6, Seed: 3}, cfg.Random)
	assert.Equal(t, kindDOCI, cfg.Wavefunction.Kind)
	assert.Equal(t, 3, cfg.Wavefunction.NOccUp)
	assert.Equal(t, -1, cfg.Wavefunction.Excitation, "unset fields keep their defaults")
	assert.Equal(t, -1, cfg.Rows)
	assert.Equal(t, -1, cfg.Cols)
}

func TestLoadSystemConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown top-level key", "fcidumpp: x.fcidump\n"},
		{"unknown nested key", "wavefunction: {knd: doci}\n"},
		{"unknown kind", "wavefunction: {kind: ccsd}\n"},
		{"empty random basis", "random: {nbasis: 0}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSystemConfig(writeFile(t, "system.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRunBuild_RandomKinds(t *testing.T) {
	tests := []struct {
		kind     string
		wantRows int
	}{
		{kindDOCI, 6},    // C(4,2) pair placements
		{kindFullCI, 36}, // C(4,2)^2
		{kindGenCI, 70},  // C(8,4) over spin orbitals
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg := defaultSystemConfig()
			cfg.Wavefunction.Kind = tt.kind
			var out bytes.Buffer
			summary, err := runBuild(&out, cfg, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, summary.Rows)
			assert.Equal(t, tt.wantRows, summary.Cols)
			assert.Positive(t, summary.NNZ)

			var decoded BuildSummary
			require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
			assert.Equal(t, summary.NNZ, decoded.NNZ)
			assert.Equal(t, tt.kind, decoded.Kind)
		})
	}
}

func TestRunBuild_FCIDUMPReferenceEnergy(t *testing.T) {
	// GIVEN the minimal-basis H2 integrals and no explicit occupations
	cfg := defaultSystemConfig()
	cfg.FCIDUMP = writeFile(t, "h2.fcidump", h2FCIDUMP)

	// WHEN the full CI operator is assembled
	summary, err := runBuild(&bytes.Buffer{}, cfg, 1)
	require.NoError(t, err)

	// THEN occupations come from the header and H[0,0] + ecore is the HF energy
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, 0.7137758743754, summary.ECore)
	hf := 2*-1.252477303982 + 0.6757101548036 + 0.7137758743754
	assert.InDelta(t, hf, summary.RefDiag, 1e-9)
}

func TestRunBuild_ExcitationAndBlock(t *testing.T) {
	cfg := defaultSystemConfig()
	cfg.Wavefunction.Excitation = 1
	summary, err := runBuild(&bytes.Buffer{}, cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Rows, "reference plus 4 up and 4 down singles")

	cfg.Wavefunction.Excitation = 10
	summary, err = runBuild(&bytes.Buffer{}, cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, 36, summary.Rows, "levels beyond the maximum stop the enumeration")

	cfg.Rows, cfg.Cols = 5, 7
	summary, err = runBuild(&bytes.Buffer{}, cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Rows)
	assert.Equal(t, 7, summary.Cols)
}

func TestRunBuild_Errors(t *testing.T) {
	cfg := defaultSystemConfig()
	cfg.FCIDUMP = filepath.Join(t.TempDir(), "missing.fcidump")
	_, err := runBuild(&bytes.Buffer{}, cfg, 1)
	assert.Error(t, err)

	cfg = defaultSystemConfig()
	cfg.Wavefunction.NOccUp = 9
	_, err = runBuild(&bytes.Buffer{}, cfg, 1)
	assert.Error(t, err)

	cfg = defaultSystemConfig()
	cfg.Rows = 100
	_, err = runBuild(&bytes.Buffer{}, cfg, 1)
	assert.Error(t, err)
}
