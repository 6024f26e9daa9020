// Command bigram builds word-level bigram statistics from a text file: a
// unigram counter of word frequencies and a counter map keyed by the
// preceding word, usable as a conditional distribution over followers.
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/probkit/counters-lib-go/anymap"
	"github.com/probkit/counters-lib-go/counter"
	"github.com/probkit/counters-lib-go/countermap"
	"github.com/probkit/counters-lib-go/xap"
	"github.com/probkit/counters-lib-go/xmetrics"
)

type config struct {
	File      string        `yaml:"file"`
	Top       int           `yaml:"top"`
	Normalize bool          `yaml:"normalize"`
	Store     string        `yaml:"store"`  // hash, sorted, sharded, lru, ttl
	Shards    int           `yaml:"shards"` // sharded store only
	LRUSize   int           `yaml:"lru_size"`
	TTL       time.Duration `yaml:"ttl"` // ttl store only
	LogLevel  string        `yaml:"log_level"`
	Metrics   string        `yaml:"metrics"` // optional listen address for /metrics
}

func defaultConfig() config {
	return config{
		Top:      10,
		Store:    "hash",
		Shards:   16,
		LRUSize:  4096,
		TTL:      time.Hour,
		LogLevel: "info",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// followerFactory picks the backing store for nested follower counters.
func followerFactory(cfg config) (counter.Factory[string], error) {
	switch cfg.Store {
	case "", "hash":
		return counter.DefaultFactory[string](), nil
	case "sorted":
		return counter.StoreFactory(func() anymap.Map[string, counter.Weight] {
			return anymap.NewOrderedMap[string, counter.Weight]()
		}), nil
	case "sharded":
		return counter.StoreFactory(func() anymap.Map[string, counter.Weight] {
			return anymap.NewShardedStringMap[counter.Weight](cfg.Shards)
		}), nil
	case "lru":
		return counter.StoreFactory(func() anymap.Map[string, counter.Weight] {
			m, err := anymap.NewLRUMap[string, counter.Weight](cfg.LRUSize)
			if err != nil {
				panic(err)
			}
			return m
		}), nil
	case "ttl":
		return counter.StoreFactory(func() anymap.Map[string, counter.Weight] {
			return anymap.NewTTLMap[string, counter.Weight](cfg.TTL)
		}), nil
	default:
		return counter.Factory[string]{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		w := strings.ToLower(strings.Trim(sc.Text(), ".,;:!?\"'()[]"))
		if w != "" {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return words, nil
}

func run(cfg config, log *zap.Logger) error {
	words, err := readWords(cfg.File)
	if err != nil {
		return err
	}
	if len(words) < 2 {
		return fmt.Errorf("input %q holds %d words, need at least 2", cfg.File, len(words))
	}

	unigrams := counter.FromValues(words, 1)

	factory, err := followerFactory(cfg)
	if err != nil {
		return err
	}
	bigrams := countermap.New(countermap.WithFactory[string, string](factory))
	for i := 1; i < len(words); i++ {
		bigrams.Inc(words[i-1], words[i], 1)
	}

	log.Info("counted",
		zap.String("file", cfg.File),
		zap.String("words", humanize.Comma(int64(len(words)))),
		zap.String("distinct", humanize.Comma(int64(unigrams.Len()))),
		zap.String("bigram_keys", humanize.Comma(int64(bigrams.Len()))),
		zap.Float64("grand_total", bigrams.Total()),
	)

	top := unigrams.MaxValue()
	log.Info("most frequent word",
		zap.String("word", top),
		zap.Float64("count", unigrams.Count(top)),
		zap.Int("followers", bigrams.LenOf(top)),
	)

	if cfg.Normalize {
		bigrams.ConditionalNormalize()
		log.Info("normalized follower distributions",
			zap.Float64("grand_total", bigrams.Total()),
			zap.Int("keys", bigrams.Len()),
		)
	}

	printFollowers(top, bigrams, cfg.Top)

	if cfg.Metrics != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(xmetrics.NewCollector("probkit", "bigram", bigrams, nil))
		log.Info("serving metrics", zap.String("addr", cfg.Metrics))
		return http.ListenAndServe(cfg.Metrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return nil
}

func printFollowers(word string, bigrams *countermap.CounterMap[string, string], top int) {
	followers, ok := bigrams.Counter(word)
	if !ok {
		return
	}
	type pair struct {
		word   string
		weight counter.Weight
	}
	var pairs []pair
	_ = followers.ForEach(func(v string, w counter.Weight) error {
		pairs = append(pairs, pair{v, w})
		return nil
	})
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].weight > pairs[j].weight })
	if top > len(pairs) {
		top = len(pairs)
	}
	fmt.Printf("top %d followers of %q:\n", top, word)
	for _, p := range pairs[:top] {
		fmt.Printf(" %s%s%g\n", p.word, "=>", p.weight)
	}
}

func main() {
	var (
		cfgPath string
		cfg     = defaultConfig()
	)

	root := &cobra.Command{
		Use:   "bigram",
		Short: "word bigram statistics over a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			// Explicit flags win over the config file.
			merged := fileCfg
			flags := cmd.Flags()
			if flags.Changed("file") {
				merged.File = cfg.File
			}
			if flags.Changed("top") {
				merged.Top = cfg.Top
			}
			if flags.Changed("normalize") {
				merged.Normalize = cfg.Normalize
			}
			if flags.Changed("store") {
				merged.Store = cfg.Store
			}
			if flags.Changed("log-level") {
				merged.LogLevel = cfg.LogLevel
			}
			if flags.Changed("metrics") {
				merged.Metrics = cfg.Metrics
			}
			if merged.File == "" {
				return fmt.Errorf("no input file; pass --file or set file: in the config")
			}

			log := xap.Console(merged.LogLevel)
			defer log.Sync() //nolint:errcheck
			return run(merged, log)
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "optional YAML config file")
	root.Flags().StringVarP(&cfg.File, "file", "f", "", "text file to read")
	root.Flags().IntVarP(&cfg.Top, "top", "t", cfg.Top, "how many followers to print")
	root.Flags().BoolVarP(&cfg.Normalize, "normalize", "n", false, "conditionally normalize follower distributions")
	root.Flags().StringVar(&cfg.Store, "store", cfg.Store, "nested counter store: hash, sorted, sharded, lru, ttl")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	root.Flags().StringVar(&cfg.Metrics, "metrics", "", "listen address to expose /metrics (blocks)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
