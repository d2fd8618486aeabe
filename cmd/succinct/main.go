// Command succinct builds and queries self-indexing compressed text stores.
//
// The bench subcommand doubles as the dataset partitioner: it shards the
// input bytes, builds one core index per shard and dispatches count, search
// and extract across the shards. The core index itself has no knowledge of
// sharding; all offset translation happens here.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/succinctdata/succinct"
)

var (
	outPath    string
	sampleRate int
	nfc        bool
	partitions int
	benchQs    []string
	warmup     int
)

func main() {
	log.SetFlags(0)
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "succinct",
		Short:         "Build and query compressed self-indexes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	build := &cobra.Command{
		Use:   "build <input>",
		Short: "Build an index from a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	build.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <input>.succinct)")
	build.Flags().IntVarP(&sampleRate, "sample-rate", "s", 0, "SA/ISA sample rate (power of two)")

	count := &cobra.Command{
		Use:   "count <index> <query>",
		Short: "Count occurrences of a query",
		Args:  cobra.ExactArgs(2),
		RunE:  runCount,
	}
	search := &cobra.Command{
		Use:   "search <index> <query>",
		Short: "List all occurrence offsets of a query",
		Args:  cobra.ExactArgs(2),
		RunE:  runSearch,
	}
	for _, c := range []*cobra.Command{count, search} {
		c.Flags().BoolVar(&nfc, "nfc", false, "normalize the query to NFC before searching")
	}

	extract := &cobra.Command{
		Use:   "extract <index> <offset> <length>",
		Short: "Extract raw bytes from the indexed text",
		Args:  cobra.ExactArgs(3),
		RunE:  runExtract,
	}
	regex := &cobra.Command{
		Use:   "regex <index> <pattern>",
		Short: "Run a regular-expression search",
		Args:  cobra.ExactArgs(2),
		RunE:  runRegex,
	}

	bench := &cobra.Command{
		Use:   "bench <input>",
		Short: "Partition the input, build per-shard indexes and time queries",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench,
	}
	bench.Flags().IntVarP(&partitions, "partitions", "p", 4, "number of shards")
	bench.Flags().IntVarP(&sampleRate, "sample-rate", "s", 0, "SA/ISA sample rate (power of two)")
	bench.Flags().StringArrayVarP(&benchQs, "query", "q", nil, "query string (repeatable)")
	bench.Flags().IntVar(&warmup, "warmup", 2, "warmup rounds per query")

	root.AddCommand(build, count, search, extract, regex, bench)
	return root
}

func loadIndex(path string) (*succinct.File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return succinct.Read(r)
}

func queryBytes(q string) []byte {
	if nfc {
		q = norm.NFC.String(q)
	}
	return []byte(q)
}

func runBuild(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	f, err := succinct.New(data, succinct.Config{SampleRate: sampleRate})
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = args[0] + ".succinct"
	}
	w, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer w.Close()
	n, err := f.WriteTo(w)
	if err != nil {
		return err
	}
	log.Printf("indexed %d bytes into %d bytes (%s)", f.Size(), n, outPath)
	return nil
}

func runCount(cmd *cobra.Command, args []string) error {
	f, err := loadIndex(args[0])
	if err != nil {
		return err
	}
	fmt.Println(f.Count(queryBytes(args[1])))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	f, err := loadIndex(args[0])
	if err != nil {
		return err
	}
	for _, off := range f.Search(queryBytes(args[1])) {
		fmt.Println(off)
	}
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	f, err := loadIndex(args[0])
	if err != nil {
		return err
	}
	offset, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return err
	}
	length, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return err
	}
	b, err := f.Extract(offset, length)
	if err != nil {
		return err
	}
	os.Stdout.Write(b)
	return nil
}

func runRegex(cmd *cobra.Command, args []string) error {
	f, err := loadIndex(args[0])
	if err != nil {
		return err
	}
	matches, err := f.RegexSearch(args[1])
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Printf("%d %d\n", m.Offset, m.Length)
	}
	return nil
}

// shard is one partition of the benchmark dataset: a core index plus the
// base offset and size of the byte range it covers.
type shard struct {
	idx  *succinct.File
	base int64
	size int64
}

// partition splits data into consecutive byte ranges of ceil(len(data)/p)
// bytes, the last one possibly shorter, and builds one index per range.
// This yields at most p ranges, and fewer when p does not divide evenly.
func partition(data []byte, p int, cfg succinct.Config) ([]shard, error) {
	if p < 1 {
		p = 1
	}
	if p > len(data) && len(data) > 0 {
		p = len(data)
	}
	shards := make([]shard, 0, p)
	step := (len(data) + p - 1) / p
	for lo := 0; lo < len(data); lo += step {
		hi := lo + step
		if hi > len(data) {
			hi = len(data)
		}
		idx, err := succinct.New(data[lo:hi], cfg)
		if err != nil {
			return nil, err
		}
		shards = append(shards, shard{idx: idx, base: int64(lo), size: int64(hi - lo)})
	}
	return shards, nil
}

func shardCount(shards []shard, q []byte) int64 {
	var total int64
	for _, s := range shards {
		total += s.idx.Count(q)
	}
	return total
}

func shardSearch(shards []shard, q []byte) []int64 {
	var out []int64
	for _, s := range shards {
		for _, off := range s.idx.Search(q) {
			out = append(out, s.base+off)
		}
	}
	return out
}

// shardExtract routes the request to the shard containing offset and splits
// it at shard edges, concatenating the pieces.
func shardExtract(shards []shard, offset, length int64) ([]byte, error) {
	var out []byte
	for _, s := range shards {
		if length == 0 {
			break
		}
		if offset < s.base || offset >= s.base+s.size {
			continue
		}
		take := s.base + s.size - offset
		if take > length {
			take = length
		}
		b, err := s.idx.Extract(offset-s.base, take)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		offset += int64(len(b))
		length -= int64(len(b))
	}
	return out, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	cfg := succinct.Config{SampleRate: sampleRate}

	start := time.Now()
	shards, err := partition(data, partitions, cfg)
	if err != nil {
		return err
	}
	log.Printf("built %d shards over %d bytes in %v", len(shards), len(data), time.Since(start))

	if len(benchQs) == 0 {
		benchQs = []string{"the"}
	}
	for _, qs := range benchQs {
		q := []byte(qs)
		for i := 0; i < warmup; i++ {
			shardCount(shards, q)
		}
		start = time.Now()
		n := shardCount(shards, q)
		countD := time.Since(start)
		start = time.Now()
		offs := shardSearch(shards, q)
		searchD := time.Since(start)
		log.Printf("query %q: count=%d (%v), search=%d offsets (%v)", qs, n, countD, len(offs), searchD)
		if len(offs) > 0 {
			start = time.Now()
			b, err := shardExtract(shards, offs[0], int64(len(q)))
			if err != nil {
				return err
			}
			log.Printf("extract at %d: %q (%v)", offs[0], b, time.Since(start))
		}
	}
	return nil
}
