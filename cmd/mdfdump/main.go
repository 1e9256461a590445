// Command mdfdump reads and parses an MDF 4.1 file, builds an index from it,
// and prints the channel group/channel layout plus, optionally, the first N
// decoded samples of one named channel.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/reneherrero/mdf4-rs-sub000/index"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
)

func main() {
	channel := flag.String("channel", "", "name of a channel to dump sample values for")
	count := flag.Int("count", 10, "number of decoded samples to print for -channel")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mdfdump [-channel name] [-count n] <file.mf4>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *channel, *count); err != nil {
		log.Fatal(err)
	}
}

func run(path, channelName string, count int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := parser.Parse(data)
	if err != nil {
		return err
	}

	idx, err := index.FromParsed(f)
	if err != nil {
		return err
	}

	for _, g := range idx.Groups {
		fmt.Printf("group %q: %d records, %d channels\n", g.Name, g.RecordCount, len(g.Channels))
		for _, ch := range g.Channels {
			fmt.Printf("  %-32s %-8s bits=%d\n", ch.Name, ch.DataType, ch.BitCount)
		}
	}

	if channelName == "" {
		return nil
	}

	g, ch, ok := idx.FindChannelByNameGlobal(channelName)
	if !ok {
		return fmt.Errorf("mdfdump: no channel named %q", channelName)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	values, err := g.ReadChannelValues(*ch, index.NewFileRangeReader(file))
	if err != nil {
		return err
	}

	fmt.Printf("\n%s (%s): %d samples\n", ch.Name, g.Name, len(values))
	for i, v := range values {
		if i >= count {
			fmt.Printf("  ... %d more\n", len(values)-count)
			break
		}
		if !v.IsValid {
			fmt.Printf("  [%d] invalid\n", i)
			continue
		}
		fmt.Printf("  [%d] raw=%s converted=%s\n", i, v.Raw, v.Converted)
	}

	return nil
}
