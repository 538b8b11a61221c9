package cargo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featlens/featlens/pkg/models"
)

const sampleManifest = `
[package]
name = "sample"
version = "0.1.0"

[dependencies]
serde = { version = "1", optional = true, features = ["derive"] }
log = "0.4"

[dev-dependencies]
criterion = "0.5"

[features]
default = ["json"]
json = ["dep:serde"]
empty = []
single = "dep:log"

[build-dependencies]
cc = "1"
`

func TestParseManifestFeatures(t *testing.T) {
	mf := ParseManifestFeatures(sampleManifest)

	require.Equal(t, []string{"default", "json", "empty", "single"}, mf.Order)
	assert.Equal(t, []string{"json"}, mf.Tokens["default"])
	assert.Equal(t, []string{"dep:serde"}, mf.Tokens["json"])
	assert.Equal(t, []string{}, mf.Tokens["empty"])
	assert.Equal(t, []string{"dep:log"}, mf.Tokens["single"])
	assert.Empty(t, mf.Skipped)
}

func TestParseManifestFeaturesNoBlock(t *testing.T) {
	mf := ParseManifestFeatures("[package]\nname = \"x\"\n")

	assert.Empty(t, mf.Order)
	assert.Empty(t, mf.Tokens)
}

func TestParseManifestFeaturesBlockEndsAtNextTable(t *testing.T) {
	content := "[features]\na = []\n\n[dependencies]\nserde = \"1\"\n"

	mf := ParseManifestFeatures(content)

	require.Equal(t, []string{"a"}, mf.Order)
	_, leaked := mf.Tokens["serde"]
	assert.False(t, leaked)
}

func TestParseManifestFeaturesSkipsMalformed(t *testing.T) {
	content := `[features]
good = ["dep:a"]
this line has no equals
multi = [
# a comment
= "novalue"
`

	mf := ParseManifestFeatures(content)

	assert.Equal(t, []string{"good"}, mf.Order)
	assert.Len(t, mf.Skipped, 3)
}

func TestParseManifestFeaturesSpacing(t *testing.T) {
	content := "[features]\n  padded   =   [ \"dep:x\" ,  \"other\" ]  \n"

	mf := ParseManifestFeatures(content)

	assert.Equal(t, []string{"dep:x", "other"}, mf.Tokens["padded"])
}

func TestParseManifestPackage(t *testing.T) {
	pkg, err := ParseManifestPackage(sampleManifest)
	require.NoError(t, err)

	assert.Equal(t, "sample", pkg.Name)

	serde := pkg.Dependency("serde")
	require.NotNil(t, serde)
	assert.True(t, serde.Optional)
	assert.Equal(t, models.KindNormal, serde.Kind)
	assert.Equal(t, []string{"derive"}, serde.Features)

	logDep := pkg.Dependency("log")
	require.NotNil(t, logDep)
	assert.False(t, logDep.Optional)

	criterion := pkg.Dependency("criterion")
	require.NotNil(t, criterion)
	assert.Equal(t, models.KindDev, criterion.Kind)

	cc := pkg.Dependency("cc")
	require.NotNil(t, cc)
	assert.Equal(t, models.KindBuild, cc.Kind)

	assert.Equal(t, []string{"default", "json", "empty", "single"}, pkg.FeatureOrder)
	assert.Equal(t, []string{"dep:serde"}, pkg.Features["json"])
}

func TestParseManifestPackageInvalid(t *testing.T) {
	_, err := ParseManifestPackage("not [ valid toml")
	assert.Error(t, err)
}
