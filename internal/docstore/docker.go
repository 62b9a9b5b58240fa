package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// Container defaults. The store runs DefraDB with a badger backend,
// bound to localhost only, with its root dir mounted from the host so
// data survives container removal.
const (
	DefaultImage         = "sourcenetwork/defradb:latest"
	DefaultContainerName = "lectern-store"
	DefaultPort          = "9181"
	ContainerPort        = "9181/tcp"
	DataDir              = "/data"
	Label                = "lectern-store"
)

// ContainerStatus is the coarse container state callers act on.
type ContainerStatus string

const (
	StatusRunning   ContainerStatus = "running"
	StatusStopped   ContainerStatus = "stopped"
	StatusNotFound  ContainerStatus = "not_found"
	StatusUnhealthy ContainerStatus = "unhealthy"
	StatusStarting  ContainerStatus = "starting"
)

// ErrNoContainer is returned for operations that need an existing container.
var ErrNoContainer = errors.New("store container not found")

// DockerConfig configures the store container.
type DockerConfig struct {
	ContainerName string
	Image         string
	// DataPath is the host directory mounted at DataDir. Empty means
	// no mount (data lives and dies with the container).
	DataPath string
	HostPort string
	// Labels are extra container labels, used by tests for cleanup.
	Labels map[string]string
}

// DockerManager owns the store container lifecycle: create, start,
// stop, remove, and readiness polling.
type DockerManager struct {
	cli  *client.Client
	name string
	img  string
	data string
	port string
	lbls map[string]string
}

// NewDockerManager builds a manager from the environment's Docker
// daemon, applying defaults for any unset config fields.
func NewDockerManager(cfg DockerConfig) (*DockerManager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	m := &DockerManager{
		cli:  cli,
		name: cfg.ContainerName,
		img:  cfg.Image,
		data: cfg.DataPath,
		port: cfg.HostPort,
		lbls: map[string]string{Label: "true"},
	}
	if m.name == "" {
		m.name = DefaultContainerName
	}
	if m.img == "" {
		m.img = DefaultImage
	}
	if m.port == "" {
		m.port = DefaultPort
	}
	for k, v := range cfg.Labels {
		m.lbls[k] = v
	}
	return m, nil
}

// Close releases the Docker client.
func (m *DockerManager) Close() error {
	return m.cli.Close()
}

// URL returns the store's HTTP API base URL on the host.
func (m *DockerManager) URL() string {
	return "http://localhost:" + m.port
}

// found describes the container named for this manager, if any.
type found struct {
	id     string
	status ContainerStatus
}

// lookup finds the managed container by name. A nil result means no
// container exists.
func (m *DockerManager) lookup(ctx context.Context) (*found, error) {
	args := filters.NewArgs(filters.Arg("name", m.name))
	list, err := m.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}

	c := list[0]
	f := &found{id: c.ID}
	switch c.State {
	case "running":
		f.status = StatusRunning
	case "exited", "dead":
		f.status = StatusStopped
	case "created", "restarting":
		f.status = StatusStarting
	default:
		f.status = ContainerStatus(c.State)
	}
	return f, nil
}

// Status reports the container's current state.
func (m *DockerManager) Status(ctx context.Context) (ContainerStatus, error) {
	f, err := m.lookup(ctx)
	if err != nil {
		return "", err
	}
	if f == nil {
		return StatusNotFound, nil
	}
	return f.status, nil
}

// Start brings the store container up, creating it first if needed.
// Starting an already-running container is a no-op.
func (m *DockerManager) Start(ctx context.Context) error {
	if _, err := m.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker is not running: %w", err)
	}

	f, err := m.lookup(ctx)
	if err != nil {
		return err
	}

	if f == nil {
		return m.create(ctx)
	}

	switch f.status {
	case StatusRunning:
		return nil
	case StatusStopped:
		if err := m.cli.ContainerStart(ctx, f.id, container.StartOptions{}); err != nil {
			return fmt.Errorf("failed to start existing container: %w", err)
		}
		return m.WaitReady(ctx, 30*time.Second)
	default:
		return fmt.Errorf("container in unexpected state: %s", f.status)
	}
}

// Stop stops a running container, giving it 10s to exit cleanly.
func (m *DockerManager) Stop(ctx context.Context) error {
	f, err := m.lookup(ctx)
	if err != nil || f == nil {
		return err
	}

	grace := 10
	if err := m.cli.ContainerStop(ctx, f.id, container.StopOptions{Timeout: &grace}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Remove stops and removes the container. Mounted data is untouched.
func (m *DockerManager) Remove(ctx context.Context) error {
	f, err := m.lookup(ctx)
	if err != nil || f == nil {
		return err
	}

	if f.status == StatusRunning {
		if err := m.Stop(ctx); err != nil {
			return err
		}
	}

	opts := container.RemoveOptions{Force: true, RemoveVolumes: true}
	if err := m.cli.ContainerRemove(ctx, f.id, opts); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// Logs returns the last tail lines of container output.
func (m *DockerManager) Logs(ctx context.Context, tail string) (string, error) {
	f, err := m.lookup(ctx)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", ErrNoContainer
	}

	rc, err := m.cli.ContainerLogs(ctx, f.id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get logs: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read logs: %w", err)
	}
	return string(b), nil
}

// ValidateExisting checks that a pre-existing container's port binding
// and data mount match this manager's config, so a serve run never
// silently attaches to a store holding someone else's data.
func (m *DockerManager) ValidateExisting(ctx context.Context) error {
	f, err := m.lookup(ctx)
	if err != nil || f == nil {
		return err
	}

	info, err := m.cli.ContainerInspect(ctx, f.id)
	if err != nil {
		return fmt.Errorf("failed to inspect container: %w", err)
	}

	bindings := info.HostConfig.PortBindings[ContainerPort]
	if len(bindings) == 0 {
		return fmt.Errorf("existing container has no port binding for %s", ContainerPort)
	}
	if got := bindings[0].HostPort; got != m.port {
		return fmt.Errorf("existing container bound to port %s, expected %s", got, m.port)
	}

	if m.data == "" {
		return nil
	}
	for _, mnt := range info.Mounts {
		if mnt.Destination != DataDir {
			continue
		}
		if mnt.Source != m.data {
			return fmt.Errorf("existing container mounts %s, expected %s", mnt.Source, m.data)
		}
		return nil
	}
	return fmt.Errorf("existing container has no mount for %s", DataDir)
}

// WaitReady polls the store's health endpoint once a second until it
// answers 200 or the timeout elapses.
func (m *DockerManager) WaitReady(ctx context.Context, timeout time.Duration) error {
	httpClient := &http.Client{Timeout: 2 * time.Second}
	url := m.URL() + "/health-check"

	probe := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
		}
		return nil
	}

	return retry.Do(probe,
		retry.Context(ctx),
		retry.Attempts(uint(timeout.Seconds())),
		retry.Delay(1*time.Second),
	)
}

// create pulls the image if needed, then creates and starts a fresh
// container and waits for it to become healthy.
func (m *DockerManager) create(ctx context.Context) error {
	if err := m.pullIfMissing(ctx); err != nil {
		return err
	}

	conf := &container.Config{
		Image: m.img,
		Cmd: []string{
			"start",
			"--no-keyring",
			"--url", "0.0.0.0:9181",
			"--store", "badger",
			"--rootdir", DataDir,
		},
		Labels:       m.lbls,
		ExposedPorts: nat.PortSet{ContainerPort: struct{}{}},
		Healthcheck: &container.HealthConfig{
			Test:        []string{"CMD", "curl", "-sf", "http://localhost:9181/health-check"},
			Interval:    2 * time.Second,
			Timeout:     5 * time.Second,
			Retries:     10,
			StartPeriod: 5 * time.Second,
		},
	}

	host := &container.HostConfig{
		PortBindings: nat.PortMap{
			ContainerPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: m.port}},
		},
	}
	if m.data != "" {
		host.Mounts = []mount.Mount{{Type: mount.TypeBind, Source: m.data, Target: DataDir}}
	}

	resp, err := m.cli.ContainerCreate(ctx, conf, host, nil, nil, m.name)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = m.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("failed to start container: %w", err)
	}

	return m.WaitReady(ctx, 30*time.Second)
}

func (m *DockerManager) pullIfMissing(ctx context.Context) error {
	if _, err := m.cli.ImageInspect(ctx, m.img); err == nil {
		return nil
	}

	rc, err := m.cli.ImagePull(ctx, m.img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer rc.Close()

	// The pull only completes once the progress stream is drained.
	_, err = io.Copy(io.Discard, rc)
	return err
}
