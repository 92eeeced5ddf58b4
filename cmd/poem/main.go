// Command poem builds a pose embedder from hyperparameters and runs a
// forward pass on random features, printing the resulting output shapes.
//
// Hyperparameters can come from flags, POEM_* environment variables, or a
// YAML config file:
//
//	poem embed --type gaussian --components 4 --embedding-size 16 --samples 20
//	POEM_TYPE=point poem embed --config model.yaml
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/backend/cpu"
	"github.com/b2220333/google-research/models"
	"github.com/b2220333/google-research/tensor"
)

const version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "poem",
		Short:         "Pose-embedding model builders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newVersionCmd(), newEmbedCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("poem %s\n", version)
		},
	}
}

func newEmbedCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Build an embedder and run a forward pass on random features",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbed(v)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "optional YAML config file")
	flags.String("type", string(models.EmbeddingTypePoint), "embedding type: point or gaussian")
	flags.Int("feature-dim", 34, "input feature dimension")
	flags.Int("components", 1, "number of embedding components")
	flags.Int("embedding-size", 16, "embedding dimensionality")
	flags.Int("samples", 0, "Gaussian samples per component (0 disables sampling)")
	flags.Uint64("seed", 0, "random seed for sampling and input features (0 = unseeded)")
	flags.Int("batch-size", 4, "input batch size")
	flags.Int("instances", 0, "instances per example (0 = no instance dimension)")
	flags.Int("hidden", 1024, "hidden nodes per fully-connected layer")
	flags.Int("blocks", 2, "number of residual blocks")
	flags.Int("layers-per-block", 2, "fully-connected layers per block")
	flags.Int("bottleneck", 0, "bottleneck nodes before the output heads (0 disables)")
	flags.Float64("dropout", 0, "dropout rate during training")
	flags.Float64("weight-max-norm", 0, "max weight norm for linear layers (0 disables clipping)")
	flags.Bool("batch-norm", true, "use batch normalization in hidden layers")
	flags.Bool("training", false, "run the forward pass in training mode")
	flags.Bool("dump", false, "print tensor values, not just shapes")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("POEM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

func runEmbed(v *viper.Viper) error {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	backend := cpu.New()
	cfg := models.Config[*cpu.Backend]{
		Base: models.BaseConfig[*cpu.Backend]{
			NumHiddenNodes: v.GetInt("hidden"),
			WeightMaxNorm:  v.GetFloat64("weight-max-norm"),
			UseBatchNorm:   v.GetBool("batch-norm"),
			DropoutRate:    v.GetFloat64("dropout"),
			NumFCsPerBlock: v.GetInt("layers-per-block"),
			NumFCBlocks:    v.GetInt("blocks"),
		},
		NumBottleneckNodes: v.GetInt("bottleneck"),
		NumSamples:         v.GetInt("samples"),
		Seed:               v.GetUint64("seed"),
	}

	embedder, err := models.NewEmbedder(
		models.EmbeddingType(v.GetString("type")),
		v.GetInt("feature-dim"),
		v.GetInt("components"),
		v.GetInt("embedding-size"),
		cfg,
		backend,
	)
	if err != nil {
		return err
	}
	embedder.SetTraining(v.GetBool("training"))

	shape := tensor.Shape{v.GetInt("batch-size"), v.GetInt("feature-dim")}
	if instances := v.GetInt("instances"); instances > 0 {
		shape = tensor.Shape{v.GetInt("batch-size"), instances, v.GetInt("feature-dim")}
	}
	var src rand.Source
	if seed := v.GetUint64("seed"); seed != 0 {
		src = rand.NewSource(seed)
	}
	features := tensor.RandnFrom[float64](shape, src, backend)

	outputs, activations, err := embedder.Embed(features)
	if err != nil {
		return err
	}

	fmt.Printf("input: %v\n", features.Shape())
	printTensorMap("outputs", outputs, v.GetBool("dump"))
	printTensorMap("activations", activations, v.GetBool("dump"))
	return nil
}

func printTensorMap(label string, m models.TensorMap[*cpu.Backend], dump bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s:\n", label)
	for _, k := range keys {
		fmt.Printf("  %-24s %v\n", k, m[k].Shape())
		if dump {
			fmt.Printf("    %v\n", m[k].Data())
		}
	}
}
