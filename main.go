/*
 * vr4300sim - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	cmd "github.com/rcornwell/vr4300sim/command/command"
	"github.com/rcornwell/vr4300sim/command/reader"
	config "github.com/rcornwell/vr4300sim/config/configparser"
	"github.com/rcornwell/vr4300sim/config/models"
	"github.com/rcornwell/vr4300sim/emu/scheduler"
	"github.com/rcornwell/vr4300sim/emu/vr4300"
	logger "github.com/rcornwell/vr4300sim/util/logger"

	_ "github.com/rcornwell/vr4300sim/config/debugconfig"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "vr4300.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optROM := getopt.StringLong("rom", 'r', "", "Cartridge ROM image")
	optCycles := getopt.Uint64Long("cycles", 'n', 0, "Run this many cycles non-interactively, then exit (0 = enter the console)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if optLogFile != nil && *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := optLogFile != nil && *optLogFile == ""
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debug))
	slog.SetDefault(Logger)

	Logger.Info("vr4300sim started")

	machine, err := models.NewMachine()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	models.SetActive(machine)

	if optConfig != nil && *optConfig != "" {
		if _, statErr := os.Stat(*optConfig); statErr == nil {
			if err := config.LoadConfigFile(*optConfig); err != nil {
				Logger.Error(err.Error())
				os.Exit(1)
			}
		} else {
			Logger.Info("no configuration file found, using architectural defaults", "path", *optConfig)
		}
	}

	if optROM != nil && *optROM != "" {
		data, err := os.ReadFile(*optROM)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		machine.Cart.LoadImage(data)
		Logger.Info("loaded cartridge image", "path", *optROM, "bytes", len(data))
	}

	cpu := vr4300.New(machine.Bus, machine.MI)
	sched := scheduler.New(cpu, machine.DP, machine.AI, machine.VI, machine.PI, machine.SI)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		Logger.Info("got quit signal")
		sched.Stop()
	}()

	if optCycles != nil && *optCycles > 0 {
		sched.Run(*optCycles)
		Logger.Info("run complete", "cycles", cpu.Cycles(), "pc", cpu.PC)
		return
	}

	reader.ConsoleReader(&cmd.Target{Sched: sched})
	sched.Stop()
	Logger.Info("shut down")
}
