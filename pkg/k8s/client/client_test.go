package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

const kubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: local
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: local
  context:
    cluster: local
    user: ci
current-context: local
users:
- name: ci
  user:
    token: secret
`

func TestBuildKubeClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(kubeconfig), 0o600))

	cs, err := BuildKubeClient(path)
	require.NoError(t, err)
	assert.NotNil(t, cs)
}

func TestBuildKubeClient_MissingFile(t *testing.T) {
	_, err := BuildKubeClient(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfiguration))
}
