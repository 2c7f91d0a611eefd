package pipeline

import (
	"fmt"

	"svgasset/internal/config"
	"svgasset/internal/spec"
	"svgasset/notify"
	"svgasset/notify/kafka"
	"svgasset/notify/stdout"
	"svgasset/processor"
	"svgasset/processor/svg"
	"svgasset/sink"
	"svgasset/sink/local"
	"svgasset/sink/s3"
)

func Compile(path string) (*Runner, error) {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg, confPath)
}

// Build wires sink, notifier and processor described by cfg into a Runner.
func Build(cfg spec.File, confPath string) (*Runner, error) {
	if cfg.Processor.Kind != svg.Name {
		return nil, fmt.Errorf("unsupported processor %q", cfg.Processor.Kind)
	}
	opts, err := config.LoadSVGOptions(confPath)
	if err != nil {
		return nil, fmt.Errorf("processor %s: %w", cfg.Processor.Kind, err)
	}

	out, err := newSink(cfg)
	if err != nil {
		return nil, err
	}
	pub, err := newNotifier(cfg.Notify)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	proc, err := svg.New(cfg.DestDir, opts, svg.WithSink(out), svg.WithNotifier(pub))
	if err != nil {
		_ = out.Close()
		_ = pub.Close()
		return nil, err
	}

	r := NewRunner(proc, processor.Params{BaseDir: cfg.BaseDir})
	r.SetConcurrency(cfg.Concurrency)
	r.AddCloser(out)
	r.AddCloser(pub)
	return r, nil
}

func newSink(cfg spec.File) (sink.Adapter, error) {
	drv, err := sink.NewAdapter(cfg.Sink.Kind)
	if err != nil {
		return nil, err
	}
	switch cfg.Sink.Kind {
	case "local":
		err = drv.Configure(local.Config{Root: cfg.DestDir})
	case "s3":
		c := cfg.Sink.S3
		err = drv.Configure(s3.Config{
			Endpoint:  c.Endpoint,
			Region:    c.Region,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			Bucket:    c.Bucket,
			Prefix:    c.Prefix,
			UseSSL:    c.UseSSL,
		})
	default:
		err = fmt.Errorf("no config block for sink %q", cfg.Sink.Kind)
	}
	if err != nil {
		return nil, err
	}
	return drv, nil
}

func newNotifier(n spec.NotifySpec) (notify.Publisher, error) {
	pub, err := notify.NewPublisher(n.Kind)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "", "none":
		return pub, nil
	case "stdout":
		err = pub.Configure(stdout.Config{PrintCounter: n.PrintCounter})
	case "kafka":
		err = pub.Configure(kafka.Config{
			Brokers: n.Kafka.Brokers,
			Topic:   n.Kafka.Topic,
			Acks:    n.Kafka.RequiredAcks,
			Version: n.Kafka.Version,
		})
	default:
		err = fmt.Errorf("no config block for notifier %q", n.Kind)
	}
	if err != nil {
		return nil, err
	}
	return pub, nil
}
