package serializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/codefresh-contrib/cfstep-helm/pkg/defaults"
	"github.com/codefresh-contrib/cfstep-helm/pkg/errors"
	"github.com/codefresh-contrib/cfstep-helm/pkg/k8s/client"
)

// ScriptWriter publishes a generated script.
type ScriptWriter interface {
	WriteScript(ctx context.Context, script string) error
}

// ScriptOption configures NewScriptWriter.
type ScriptOption func(*scriptOptions)

type scriptOptions struct {
	kube       kubernetes.Interface
	kubeconfig string
	timeout    time.Duration
	stdout     io.Writer
}

// WithKubeClient sets the client used for ConfigMap destinations.
func WithKubeClient(c kubernetes.Interface) ScriptOption {
	return func(o *scriptOptions) {
		o.kube = c
	}
}

// WithKubeconfig sets the kubeconfig used when no client is given.
func WithKubeconfig(path string) ScriptOption {
	return func(o *scriptOptions) {
		o.kubeconfig = path
	}
}

// WithWriteTimeout bounds the ConfigMap write.
func WithWriteTimeout(d time.Duration) ScriptOption {
	return func(o *scriptOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithStdout replaces os.Stdout for the "-" destination.
func WithStdout(w io.Writer) ScriptOption {
	return func(o *scriptOptions) {
		o.stdout = w
	}
}

// NewScriptWriter returns the writer for dest: "" or "-" for stdout,
// cm://namespace/name for a ConfigMap, anything else is a file path.
func NewScriptWriter(dest string, opts ...ScriptOption) (ScriptWriter, error) {
	o := &scriptOptions{
		timeout: defaults.K8sWriteTimeout,
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	dest = strings.TrimSpace(dest)
	switch {
	case dest == "" || dest == StdoutURI:
		return &streamScriptWriter{w: o.stdout}, nil

	case strings.HasPrefix(dest, ConfigMapURIScheme):
		namespace, name, err := ParseConfigMapURI(dest)
		if err != nil {
			return nil, err
		}
		kube := o.kube
		if kube == nil {
			cs, err := client.BuildKubeClient(o.kubeconfig)
			if err != nil {
				return nil, err
			}
			kube = cs
		}
		return &configMapScriptWriter{
			client:    kube,
			namespace: namespace,
			name:      name,
			timeout:   o.timeout,
		}, nil

	default:
		return &fileScriptWriter{path: dest}, nil
	}
}

// ParseConfigMapURI splits cm://namespace/name.
func ParseConfigMapURI(uri string) (string, string, error) {
	rest := strings.TrimPrefix(uri, ConfigMapURIScheme)
	namespace, name, ok := strings.Cut(rest, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", errors.WrapWithContext(errors.ErrCodeInvalidConfiguration,
			"invalid ConfigMap URI, expected cm://namespace/name", nil,
			map[string]any{"uri": uri})
	}
	return namespace, name, nil
}

type streamScriptWriter struct {
	w io.Writer
}

func (s *streamScriptWriter) WriteScript(_ context.Context, script string) error {
	if _, err := io.WriteString(s.w, script+"\n"); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write script", err)
	}
	return nil
}

type fileScriptWriter struct {
	path string
}

func (f *fileScriptWriter) WriteScript(_ context.Context, script string) error {
	if err := os.WriteFile(f.path, []byte(script+"\n"), ScriptFileMode); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to create output file", err,
			map[string]any{"path": f.path})
	}
	slog.Info("script written", "path", f.path, "bytes", len(script)+1)
	return nil
}

type configMapScriptWriter struct {
	client    kubernetes.Interface
	namespace string
	name      string
	timeout   time.Duration
}

func (c *configMapScriptWriter) WriteScript(ctx context.Context, script string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	api := c.client.CoreV1().ConfigMaps(c.namespace)
	fail := func(op string, err error) error {
		code := errors.ErrCodeUpstream
		if ctx.Err() != nil {
			code = errors.ErrCodeTimeout
		}
		return errors.WrapWithContext(code, fmt.Sprintf("failed to %s ConfigMap", op), err,
			map[string]any{"namespace": c.namespace, "name": c.name})
	}

	existing, err := api.Get(ctx, c.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      c.name,
				Namespace: c.namespace,
				Labels: map[string]string{
					"app.kubernetes.io/managed-by": "cfstep-helm",
				},
			},
			Data: map[string]string{ScriptKey: script},
		}
		if _, err := api.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return fail("create", err)
		}
		slog.Info("script ConfigMap created", "namespace", c.namespace, "name", c.name)
		return nil
	}
	if err != nil {
		return fail("get", err)
	}

	if existing.Data == nil {
		existing.Data = map[string]string{}
	}
	existing.Data[ScriptKey] = script
	if _, err := api.Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		return fail("update", err)
	}
	slog.Info("script ConfigMap updated", "namespace", c.namespace, "name", c.name)
	return nil
}
