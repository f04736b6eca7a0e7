package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"golang.org/x/net/html"
)

const formatoDataSite = "02/01/2006"

// getUpdateDate obtém a data de atualização publicada na página de cimento da CBIC.
func getUpdateDate(ctx context.Context, pageURL string) (time.Time, error) {
	var page string
	err := requests.
		URL(pageURL).
		ToString(&page).
		Fetch(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("erro ao acessar %s: %w", pageURL, err)
	}
	return parseUpdateDate(strings.NewReader(page))
}

// parseUpdateDate procura o título <h3> com "Cimento" e o primeiro
// <span class="date-time"> depois dele, na ordem do documento.
func parseUpdateDate(r io.Reader) (time.Time, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("erro ao interpretar HTML: %w", err)
	}

	var tituloEncontrado bool
	var span *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if span != nil {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case !tituloEncontrado && n.Data == "h3" && strings.Contains(textContent(n), "Cimento"):
				tituloEncontrado = true
			case tituloEncontrado && n.Data == "span" && hasClass(n, "date-time"):
				span = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !tituloEncontrado {
		return time.Time{}, fmt.Errorf("título 'Cimento' não encontrado na página")
	}
	if span == nil {
		return time.Time{}, fmt.Errorf("data de atualização (span.date-time) não encontrada após o título 'Cimento'")
	}

	dataTexto := strings.TrimSpace(textContent(span))
	data, err := time.Parse(formatoDataSite, dataTexto)
	if err != nil {
		return time.Time{}, fmt.Errorf("erro ao converter a data: %s", dataTexto)
	}
	return data, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// findLatestFile verifica URLs incrementais a partir de start e devolve a última
// que respondeu 200, com o seu número. URL vazia quando nenhuma existe.
func findLatestFile(ctx context.Context, baseURL string, start, limit int) (string, int, error) {
	latestURL := ""
	latestNum := 0
	for num := start; num < limit; num++ {
		url := fmt.Sprintf("%s%d.xlsx", baseURL, num)

		var status int
		err := requests.
			URL(url).
			Head().
			AddValidator(func(res *http.Response) error {
				status = res.StatusCode
				return nil
			}).
			Fetch(ctx)
		if err != nil {
			return "", 0, fmt.Errorf("erro ao verificar %s: %w", url, err)
		}
		if status != http.StatusOK {
			break
		}
		latestURL = url
		latestNum = num
	}
	return latestURL, latestNum, nil
}

// downloadFile baixa a planilha para rawDir com o nome consumo_cimento_<data>.xlsx.
func downloadFile(ctx context.Context, url string, updateDate time.Time, rawDir string) (string, error) {
	if err := os.MkdirAll(rawDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("erro ao criar diretório %s: %w", rawDir, err)
	}
	filename := fmt.Sprintf("consumo_cimento_%s.xlsx", updateDate.Format(time.DateOnly))
	filePath := filepath.Join(rawDir, filename)

	err := requests.
		URL(url).
		ToFile(filePath).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("erro ao baixar %s: %w", url, err)
	}
	return filePath, nil
}

// extractData baixa a planilha mais recente quando o site tem atualização nova.
// Devolve o caminho do arquivo baixado, ou vazio quando não há nada novo.
func extractData(ctx context.Context, cfg *Config) (string, error) {
	logInfo("🔍 Iniciando verificação de atualização...")
	metadata, err := loadMetadata(cfg.MetadataPath)
	if err != nil {
		return "", err
	}

	dataAtualizacao, err := getUpdateDate(ctx, cfg.CBICURL)
	if err != nil {
		return "", fmt.Errorf("erro ao obter data de atualização: %w", err)
	}
	logInfo("📅 Data mais recente no site: %s", dataAtualizacao.Format(time.DateOnly))

	var ultimaColeta time.Time
	if metadata.UltimaColeta != nil && *metadata.UltimaColeta != "" {
		ultimaColeta, err = time.Parse(time.DateOnly, *metadata.UltimaColeta)
		if err != nil {
			return "", fmt.Errorf("erro ao interpretar ultima_coleta %q: %w", *metadata.UltimaColeta, err)
		}
	}

	if !ultimaColeta.IsZero() && !dataAtualizacao.After(ultimaColeta) {
		logSuccess("✅ Nenhuma atualização detectada. Dados já estão atualizados.")
		return "", nil
	}

	logInfo("📦 Nova versão detectada! Buscando arquivo mais recente...")
	latestURL, versao, err := findLatestFile(ctx, cfg.CBICFileURL, cfg.ProbeStart, cfg.ProbeLimit)
	if err != nil {
		return "", err
	}
	if latestURL == "" {
		logWarning("Nenhum novo arquivo encontrado.")
		return "", nil
	}

	logInfo("⬇️ Baixando: %s", latestURL)
	filePath, err := downloadFile(ctx, latestURL, dataAtualizacao, cfg.RawDataDir)
	if err != nil {
		return "", err
	}

	coleta := dataAtualizacao.Format(time.DateOnly)
	versaoTexto := fmt.Sprint(versao)
	metadata.UltimaColeta = &coleta
	metadata.UltimaDataAtualizacao = &coleta
	metadata.UltimaURL = &latestURL
	metadata.UltimaVersao = &versaoTexto
	if err := saveMetadata(cfg.MetadataPath, metadata); err != nil {
		return "", err
	}

	logSuccess("✅ Arquivo salvo em: %s", filePath)
	return filePath, nil
}
