package main

import (
	"context"

	"github.com/jingkaihe/skillport/pkg/telemetry"
	"github.com/jingkaihe/skillport/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// initTracing initializes the OpenTelemetry tracing system
func initTracing(ctx context.Context) (func(context.Context) error, error) {
	config := telemetry.Config{
		Enabled:        viper.GetBool("tracing.enabled"),
		ServiceName:    "skillport",
		ServiceVersion: version.Get().Version,
		SamplerType:    viper.GetString("tracing.sampler"),
		SamplerRatio:   viper.GetFloat64("tracing.ratio"),
	}

	return telemetry.InitTracer(ctx, config)
}

var tracer = telemetry.Tracer("skillport.cli")

// withTracing wraps a Cobra command with tracing
func withTracing(cmd *cobra.Command) *cobra.Command {
	originalRunE := cmd.RunE

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		attrs := []attribute.KeyValue{
			attribute.String("command.name", cmd.Name()),
			attribute.String("command.path", cmd.CommandPath()),
			attribute.Int("args.count", len(args)),
		}
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			attrs = append(attrs, attribute.String("flag."+flag.Name, flag.Value.String()))
		})

		ctx, span := tracer.Start(cmd.Context(), "cli.command", trace.WithAttributes(attrs...))
		defer span.End()

		cmd.SetContext(ctx)

		if err := originalRunE(cmd, args); err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
			return err
		}

		span.SetStatus(codes.Ok, "")
		return nil
	}

	return cmd
}

func init() {
	rootCmd.PersistentFlags().Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	rootCmd.PersistentFlags().String("tracing-sampler", "ratio", "Tracing sampler type (always, never, ratio)")
	rootCmd.PersistentFlags().Float64("tracing-ratio", 1, "Sampling ratio when using ratio sampler")

	viper.BindPFlag("tracing.enabled", rootCmd.PersistentFlags().Lookup("tracing-enabled"))
	viper.BindPFlag("tracing.sampler", rootCmd.PersistentFlags().Lookup("tracing-sampler"))
	viper.BindPFlag("tracing.ratio", rootCmd.PersistentFlags().Lookup("tracing-ratio"))
}
