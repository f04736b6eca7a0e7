package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"snicETL/models"
)

func logInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func logWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

func logError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

func logSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// previewRegistros mostra as primeiras n linhas do resultado em forma de tabela.
func previewRegistros(registros []models.ConsumoCimento, n int) {
	if n > len(registros) {
		n = len(registros)
	}
	data := pterm.TableData{models.ColunasConsumoCimento}
	for _, r := range registros[:n] {
		data = append(data, r.Record())
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		logWarning("Não foi possível exibir a prévia: %v", err)
	}
}

func displayBanner(version string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Println(green("\n🚀 ETL SNIC: consumo de cimento por estado"))
	fmt.Println(cyan(fmt.Sprintf("versão %s\n", version)))
}
