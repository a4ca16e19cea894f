package confkit_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchsync-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Run("absolute path wins", func(t *testing.T) {
		got := confkit.ResolvePath("/base/dir", "/absolute/file.yaml")
		assert.Equal(t, "/absolute/file.yaml", got)
	})

	t.Run("relative path joins base", func(t *testing.T) {
		got := confkit.ResolvePath("/base/dir", "conf/file.yaml")
		assert.Equal(t, filepath.Join("/base/dir", "conf", "file.yaml"), got)
	})

	t.Run("env vars expand before joining", func(t *testing.T) {
		t.Setenv("CONFKIT_TEST_DIR", "expanded")
		got := confkit.ResolvePath("/base", "${CONFKIT_TEST_DIR}/file.yaml")
		assert.Equal(t, filepath.Join("/base", "expanded", "file.yaml"), got)
	})
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "/etc/conf", confkit.BaseDir("/etc/conf/app.yaml"))
	assert.Equal(t, "conf", confkit.BaseDir("conf/app.yaml"))
}

func TestSectionHydrate(t *testing.T) {
	t.Run("no file configured is a no-op", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(string) (*string, error) {
			t.Fatal("loader must not run when File is empty")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, section.Value)
	})

	t.Run("resolves path and stores value", func(t *testing.T) {
		section := &confkit.Section[string]{File: "section.yaml"}
		value := "hydrated"
		err := section.Hydrate("/base", func(path string) (*string, error) {
			assert.Equal(t, filepath.Join("/base", "section.yaml"), path)
			return &value, nil
		})
		require.NoError(t, err)
		require.NotNil(t, section.Value)
		assert.Equal(t, "hydrated", *section.Value)
		assert.Equal(t, filepath.Join("/base", "section.yaml"), section.File)
	})

	t.Run("loader error propagates", func(t *testing.T) {
		section := &confkit.Section[int]{File: "broken.yaml"}
		boom := errors.New("boom")
		err := section.Hydrate("/base", func(string) (*int, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)
		assert.Nil(t, section.Value)
	})
}
