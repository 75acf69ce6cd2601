/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/hyperledger/fabric-blockcipher/bccsp/kdf"
	"github.com/hyperledger/fabric-blockcipher/bccsp/modes"
	"github.com/hyperledger/fabric-blockcipher/common/flogging"
	"github.com/hyperledger/fabric-blockcipher/common/metadata"
	"github.com/hyperledger/fabric-blockcipher/internal/aesutil"
	"github.com/hyperledger/fabric-blockcipher/internal/config"
	"github.com/hyperledger/fabric-blockcipher/internal/hexcodec"
	"github.com/hyperledger/fabric-blockcipher/internal/operations"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

var logger = flogging.MustGetLogger("aesutil.cmd")

type cipherFlags struct {
	mode        *string
	segmentSize *int
	key         *string
	iv          *string
	input       *string
	workers     *int
	passphrase  *string
	salt        *string
	iterations  *int
	kdfHash     *string
}

func addCipherFlags(cmd *kingpin.CmdClause) *cipherFlags {
	return &cipherFlags{
		mode:        cmd.Flag("mode", "Mode of operation: ECB, CFB, CBC, OFB or the selector 0-3.").Short('m').Default("ECB").String(),
		segmentSize: cmd.Flag("segment-size", "CFB segment size in bytes, 1-16.").Short('s').Default("16").Int(),
		key:         cmd.Flag("key", "128-bit key as hex.").Short('k').Default("").String(),
		iv:          cmd.Flag("iv", "Initialization vector as hex. Not used by ECB.").Default("").String(),
		input:       cmd.Flag("input", "Message as hex.").Short('i').Required().String(),
		workers:     cmd.Flag("workers", "Goroutines used for ECB.").Default("1").Int(),
		passphrase:  cmd.Flag("passphrase", "Derive the key from this passphrase instead of --key.").Envar("AESUTIL_PASSPHRASE").Default("").String(),
		salt:        cmd.Flag("salt", "Key derivation salt as hex, at least 8 bytes.").Default("").String(),
		iterations:  cmd.Flag("iterations", "Key derivation iterations.").Default(strconv.Itoa(kdf.DefaultIterations)).Int(),
		kdfHash:     cmd.Flag("kdf-hash", "Key derivation hash family: SHA2 or SHA3.").Default("SHA2").String(),
	}
}

var (
	app = kingpin.New("aesutil", "AES-128 block cipher utility")

	loggingSpec   = app.Flag("logging-spec", "Logging spec, for example info:blockcipher.modes=debug.").Default("").String()
	loggingFormat = app.Flag("logging-format", "Log format: json, logfmt or a console format string.").Default("").String()

	encrypt      = app.Command("encrypt", "Encrypt a hex message.")
	encryptFlags = addCipherFlags(encrypt)

	decrypt      = app.Command("decrypt", "Decrypt a hex message.")
	decryptFlags = addCipherFlags(decrypt)

	runCmd     = app.Command("run", "Run the cipher described by a configuration file.")
	runCfgFile = runCmd.Flag("config", "Path to aesutil.yaml. Searched for on AESUTIL_CFG_PATH when unset.").Short('c').Default("").String()

	interactive = app.Command("interactive", "Read the six line parameter format from stdin.")

	serve      = app.Command("serve", "Start the operations endpoint.")
	serveCfg   = serve.Flag("config", "Path to aesutil.yaml. Searched for on AESUTIL_CFG_PATH when unset.").Short('c').String()
	serveListn = serve.Flag("listen", "Listen address; overrides Operations.ListenAddress.").String()

	version = app.Command("version", "Print version information.")

	args = os.Args[1:]
)

func main() {
	kingpin.Version(metadata.Version)

	command, err := app.Parse(args)
	if err != nil {
		kingpin.Fatalf("parsing arguments: %s. Try --help", err)
		return
	}

	if err := execute(command, os.Stdin, os.Stdout); err != nil {
		kingpin.Fatalf("%s", err)
	}
}

func execute(command string, stdin io.Reader, stdout io.Writer) error {
	switch command {
	case encrypt.FullCommand():
		if err := initLogging("", ""); err != nil {
			return err
		}
		return transform(modes.Encrypt, encryptFlags, stdout)

	case decrypt.FullCommand():
		if err := initLogging("", ""); err != nil {
			return err
		}
		return transform(modes.Decrypt, decryptFlags, stdout)

	case runCmd.FullCommand():
		conf, err := config.Load(*runCfgFile)
		if err != nil {
			return err
		}
		if err := initLogging(conf.Logging.Spec, conf.Logging.Format); err != nil {
			return err
		}
		return runConfig(conf, stdout)

	case interactive.FullCommand():
		if err := initLogging("", ""); err != nil {
			return err
		}
		return runInteractive(stdin, stdout)

	case serve.FullCommand():
		conf, err := config.Load(*serveCfg)
		if err != nil {
			return err
		}
		if *serveListn != "" {
			conf.Operations.ListenAddress = *serveListn
		}
		if err := initLogging(conf.Logging.Spec, conf.Logging.Format); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, conf)

	case version.FullCommand():
		fmt.Fprint(stdout, versionInfo())
		return nil
	}

	return errors.Errorf("unknown command %s", command)
}

// initLogging applies the configured spec and format. The command line
// flags take precedence over the configuration file.
func initLogging(spec, format string) error {
	if *loggingSpec != "" {
		spec = *loggingSpec
	}
	if *loggingFormat != "" {
		format = *loggingFormat
	}
	return flogging.Global.Apply(flogging.Config{LogSpec: spec, Format: format, Writer: os.Stderr})
}

func transform(dir modes.Direction, f *cipherFlags, stdout io.Writer) error {
	mode, err := modes.ParseMode(*f.mode)
	if err != nil {
		return err
	}

	p := &aesutil.Params{Direction: dir, Mode: mode, SegmentSize: *f.segmentSize}
	var salt []byte
	fields := []struct {
		name string
		in   string
		dst  *[]byte
	}{
		{name: "--key", in: *f.key, dst: &p.Key},
		{name: "--iv", in: *f.iv, dst: &p.IV},
		{name: "--input", in: *f.input, dst: &p.Input},
		{name: "--salt", in: *f.salt, dst: &salt},
	}
	for _, field := range fields {
		b, err := hexcodec.Parse(field.in)
		if err != nil {
			return errors.WithMessage(err, field.name)
		}
		*field.dst = b
	}

	switch {
	case *f.passphrase != "" && *f.key != "":
		return errors.New("--key and --passphrase are mutually exclusive")
	case *f.passphrase != "":
		key, err := kdf.DeriveKey(kdf.Opts{
			Passphrase: []byte(*f.passphrase),
			Salt:       salt,
			Iterations: *f.iterations,
			HashFamily: *f.kdfHash,
		})
		if err != nil {
			return errors.WithMessage(err, "deriving key")
		}
		p.Key = key
	case *f.key == "":
		return errors.New("one of --key or --passphrase is required")
	}

	out, err := aesutil.Execute(modes.NewRunner(modes.RunnerOptions{Workers: *f.workers}), p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, hexcodec.Format(out))
	return err
}

func runConfig(conf *config.TopLevel, stdout io.Writer) error {
	cfg, err := conf.Cipher.ModesConfig()
	if err != nil {
		return err
	}

	p := &aesutil.Params{
		Direction:   cfg.Direction,
		Mode:        cfg.Mode,
		SegmentSize: cfg.SegmentSize,
		Input:       cfg.Input,
		Key:         cfg.Key,
		IV:          cfg.IV,
	}
	out, err := aesutil.Execute(modes.NewRunner(modes.RunnerOptions{Workers: conf.Cipher.Workers}), p)
	if err != nil {
		return err
	}
	return aesutil.WriteResult(stdout, p, out)
}

func runInteractive(stdin io.Reader, stdout io.Writer) error {
	fmt.Fprintln(stdout, aesutil.Prompt)

	p, err := aesutil.ReadParams(stdin)
	if err != nil {
		return errors.WithMessage(err, "Input invalid, please try again")
	}

	out, err := aesutil.Execute(modes.NewRunner(modes.RunnerOptions{}), p)
	if err != nil {
		return err
	}
	return aesutil.WriteResult(stdout, p, out)
}

func runServer(ctx context.Context, conf *config.TopLevel) error {
	system := operations.NewSystem(operations.Options{
		ListenAddress:   conf.Operations.ListenAddress,
		ShutdownTimeout: conf.Operations.ShutdownTimeout,
		Metrics: operations.MetricsOptions{
			Provider: conf.Operations.Metrics.Provider,
			Statsd: operations.Statsd{
				Network:       conf.Operations.Metrics.Statsd.Network,
				Address:       conf.Operations.Metrics.Statsd.Address,
				WriteInterval: conf.Operations.Metrics.Statsd.WriteInterval,
				Prefix:        conf.Operations.Metrics.Statsd.Prefix,
			},
		},
		Workers: conf.Cipher.Workers,
		Version: metadata.Version,
	})
	if err := system.Start(); err != nil {
		return errors.WithMessage(err, "failed to start operations endpoint")
	}

	<-ctx.Done()
	logger.Info("Shutting down operations endpoint")
	return system.Stop()
}

func versionInfo() string {
	return fmt.Sprintf("%s:\n Version: %s\n Commit SHA: %s\n Go version: %s\n OS/Arch: %s\n",
		metadata.ProgramName,
		metadata.Version,
		metadata.CommitSHA,
		runtime.Version(),
		fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	)
}
