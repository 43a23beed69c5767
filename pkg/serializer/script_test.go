package serializer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
)

const testScript = "#!/bin/bash -e\nhelm version --short -c"

func TestScriptWriter_Stdout(t *testing.T) {
	for _, dest := range []string{"", "-", " - "} {
		var buf bytes.Buffer
		w, err := NewScriptWriter(dest, WithStdout(&buf))
		require.NoError(t, err)
		require.NoError(t, w.WriteScript(context.Background(), testScript))
		assert.Equal(t, testScript+"\n", buf.String())
	}
}

func TestScriptWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entrypoint.sh")
	w, err := NewScriptWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteScript(context.Background(), testScript))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testScript+"\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "script is executable")

	w, err = NewScriptWriter(filepath.Join(t.TempDir(), "missing", "entrypoint.sh"))
	require.NoError(t, err)
	err = w.WriteScript(context.Background(), testScript)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to create output file"))
}

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		uri       string
		namespace string
		name      string
		wantErr   bool
	}{
		{uri: "cm://default/helm-script", namespace: "default", name: "helm-script"},
		{uri: "cm://namespace", wantErr: true},
		{uri: "cm:///name", wantErr: true},
		{uri: "cm://", wantErr: true},
		{uri: "cm://ns/a/b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			ns, name, err := ParseConfigMapURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid ConfigMap URI")
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.namespace, ns)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestScriptWriter_ConfigMapCreate(t *testing.T) {
	kube := fake.NewClientset()
	w, err := NewScriptWriter("cm://ci/helm-script", WithKubeClient(kube))
	require.NoError(t, err)
	require.NoError(t, w.WriteScript(context.Background(), testScript))

	cm, err := kube.CoreV1().ConfigMaps("ci").Get(context.Background(), "helm-script", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, testScript, cm.Data[ScriptKey])
	assert.Equal(t, "cfstep-helm", cm.Labels["app.kubernetes.io/managed-by"])
}

func TestScriptWriter_ConfigMapUpdate(t *testing.T) {
	existing := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "helm-script", Namespace: "ci"},
		Data:       map[string]string{ScriptKey: "old", "other": "kept"},
	}
	kube := fake.NewClientset(existing)
	w, err := NewScriptWriter("cm://ci/helm-script", WithKubeClient(kube))
	require.NoError(t, err)
	require.NoError(t, w.WriteScript(context.Background(), testScript))

	cm, err := kube.CoreV1().ConfigMaps("ci").Get(context.Background(), "helm-script", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, testScript, cm.Data[ScriptKey])
	assert.Equal(t, "kept", cm.Data["other"])
}

func TestScriptWriter_InvalidConfigMapURI(t *testing.T) {
	w, err := NewScriptWriter("cm://only-namespace", WithKubeClient(fake.NewClientset()))
	require.Error(t, err)
	assert.Nil(t, w)
}
