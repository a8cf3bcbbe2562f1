package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jcrunjie/openstego/config"
	"github.com/jcrunjie/openstego/img"
	"github.com/jcrunjie/openstego/payload"
	"github.com/jcrunjie/openstego/steg"
	"github.com/jcrunjie/openstego/util"
)

var logger *util.Logger

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		help()
		return
	}

	switch os.Args[1] {
	case "hide":
		runHide(os.Args[2:])
	case "reveal":
		runReveal(os.Args[2:])
	case "capacity":
		runCapacity(os.Args[2:])
	default:
		help()
		os.Exit(2)
	}
}

func help() {
	fmt.Printf("usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Println("commands:")
	fmt.Println("  hide      embed a data file into a carrier image")
	fmt.Println("  reveal    extract embedded data from a carrier image")
	fmt.Println("  capacity  show how many bytes a carrier can hold")
	fmt.Println()
	fmt.Printf("run %s <command> -h for command options\n", os.Args[0])
}

func fatal(msg string, err error) {
	if logger != nil {
		logger.LogError(fmt.Errorf("%s: %w", msg, err))
	} else {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	}
	os.Exit(1)
}

// loadConfig returns the defaults, overridden by the YAML file when one is
// given, and sets up the logger.
func loadConfig(filename string) *config.FullConfig {
	conf := config.Default()
	if filename != "" {
		var err error
		conf, err = config.LoadConfig(filename)
		if err != nil {
			fatal("failed to load configuration", err)
		}
	}
	logger = util.NewLogger(&conf.Logger)
	return conf
}

func runHide(args []string) {
	fs := flag.NewFlagSet("hide", flag.ExitOnError)
	inFile := fs.String("in", "", "carrier image (png or bmp)")
	dataFile := fs.String("data", "", "file with the data to hide, - for stdin")
	outFile := fs.String("out", "", "where to write the carrier with embedded data")
	configFile := fs.String("config", "", "optional YAML configuration file")
	maxBits := fs.Int("max-bits", 0, "override max bits used per channel (1-8)")
	noCompress := fs.Bool("no-compress", false, "skip gzip compression of the data")
	encrypt := fs.Bool("encrypt", false, "encrypt the data with a passphrase")
	fs.Parse(args)

	if *inFile == "" || *dataFile == "" || *outFile == "" {
		fs.Usage()
		os.Exit(2)
	}

	conf := loadConfig(*configFile)
	if *maxBits != 0 {
		conf.Stego.MaxBitsUsedPerChannel = *maxBits
	}
	if *noCompress {
		conf.Stego.Compress = false
	}
	if *encrypt {
		conf.Stego.Encrypt = true
	}
	if err := conf.Stego.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	cover, err := os.ReadFile(*inFile)
	if err != nil {
		fatal("failed to read carrier image", err)
	}
	data, err := readInput(*dataFile)
	if err != nil {
		fatal("failed to read data file", err)
	}

	canvas, format, err := img.Decode(cover)
	if err != nil {
		fatal("failed to decode carrier image", err)
	}

	var passphrase []byte
	if conf.Stego.Encrypt {
		passphrase, err = util.GetPasswd("Passphrase: ")
		if err != nil {
			fatal("failed to read passphrase", err)
		}
	}

	wrapped, flags, err := payload.Wrap(data, conf.Stego.Compress, passphrase)
	if err != nil {
		fatal("failed to prepare data", err)
	}

	w, err := steg.NewWriter(canvas, len(wrapped), &steg.DataHeader{Flags: flags}, conf.Stego.MaxBitsUsedPerChannel)
	if err != nil {
		fatal("failed to open embedding stream", err)
	}
	if _, err := w.Write(wrapped); err != nil {
		fatal("failed to embed data", err)
	}
	if err := w.Close(); err != nil {
		fatal("failed to finish embedding", err)
	}
	stego, err := w.Image()
	if err != nil {
		fatal("failed to finish embedding", err)
	}

	out, err := img.Encode(stego, format)
	if err != nil {
		fatal("failed to encode output image", err)
	}
	if err := os.WriteFile(*outFile, out, 0644); err != nil {
		fatal("failed to write output image", err)
	}
	logger.LogInfo(fmt.Sprintf("embedded %d bytes at %d bits per channel into %s",
		len(wrapped), w.ChannelBits(), *outFile))
}

func runReveal(args []string) {
	fs := flag.NewFlagSet("reveal", flag.ExitOnError)
	inFile := fs.String("in", "", "carrier image with embedded data")
	outFile := fs.String("out", "", "where to write the extracted data, - for stdout")
	configFile := fs.String("config", "", "optional YAML configuration file")
	fs.Parse(args)

	if *inFile == "" || *outFile == "" {
		fs.Usage()
		os.Exit(2)
	}

	loadConfig(*configFile)

	cover, err := os.ReadFile(*inFile)
	if err != nil {
		fatal("failed to read carrier image", err)
	}
	canvas, _, err := img.Decode(cover)
	if err != nil {
		fatal("failed to decode carrier image", err)
	}

	r, err := steg.NewReader(canvas)
	if err != nil {
		fatal("no embedded data found", err)
	}

	var passphrase []byte
	if r.Header().Flags&steg.FlagEncrypted != 0 {
		passphrase, err = util.GetPasswd("Passphrase: ")
		if err != nil {
			fatal("failed to read passphrase", err)
		}
	}

	wrapped, err := io.ReadAll(r)
	if err != nil {
		fatal("failed to extract data", err)
	}
	data, err := payload.Unwrap(wrapped, r.Header().Flags, passphrase)
	if err != nil {
		fatal("failed to unwrap data", err)
	}

	if err := writeOutput(*outFile, data); err != nil {
		fatal("failed to write extracted data", err)
	}
	logger.LogInfo(fmt.Sprintf("extracted %d bytes (%d bits per channel)",
		len(data), r.ChannelBits()))
}

func runCapacity(args []string) {
	fs := flag.NewFlagSet("capacity", flag.ExitOnError)
	inFile := fs.String("in", "", "carrier image (png or bmp)")
	configFile := fs.String("config", "", "optional YAML configuration file")
	fs.Parse(args)

	if *inFile == "" {
		fs.Usage()
		os.Exit(2)
	}

	conf := loadConfig(*configFile)

	cover, err := os.ReadFile(*inFile)
	if err != nil {
		fatal("failed to read carrier image", err)
	}
	canvas, format, err := img.Decode(cover)
	if err != nil {
		fatal("failed to decode carrier image", err)
	}

	bounds := canvas.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	fmt.Printf("%s: %dx%d %s, %d pixels\n",
		*inFile, bounds.Dx(), bounds.Dy(), format, pixels)
	for bits := 1; bits <= conf.Stego.MaxBitsUsedPerChannel; bits++ {
		fmt.Printf("  %d bit(s) per channel: %d bytes\n",
			bits, steg.Capacity(pixels, steg.HeaderSize(), bits))
	}
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func writeOutput(name string, data []byte) error {
	if name == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(name, data, 0644)
}
