package llm

import (
	"fmt"
	"strings"
)

const (
	summaryTranscriptLimit  = 8000
	classifyTranscriptLimit = 600
	categoryTranscriptLimit = 500
	subcatTranscriptLimit   = 300
)

func truncate(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}

func summaryPrompt(title, transcript string) string {
	return fmt.Sprintf(`Analiza este video y proporciona un resumen detallado con puntos clave.

Título: %s
Transcripción:
%s

IMPORTANTE: Responde EXACTAMENTE en este formato:

RESUMEN: [Escribe aquí un resumen de 4-6 oraciones sobre el contenido del video]

PUNTOS CLAVE:
- [Primer punto clave]
- [Segundo punto clave]
- [Tercer punto clave]
- [Cuarto punto clave]`, title, truncate(transcript, summaryTranscriptLimit))
}

func categoryPrompt(title, author, transcript string, categories []string) string {
	context := ""
	if strings.TrimSpace(transcript) != "" {
		context = fmt.Sprintf("\n- Transcripción (fragmento): %s...", truncate(transcript, categoryTranscriptLimit))
	}
	return fmt.Sprintf(`Eres un clasificador de videos. Analiza el siguiente video y asígnale la categoría MÁS APROPIADA.

Categorías disponibles: %s

Video:
- Título: %s
- Canal: %s%s

Instrucciones:
- Si habla de inversiones, bolsa, dinero, economía → Finanzas
- Si habla de herramientas, apps, IA, software → Tecnología
- Si es un tutorial o curso para aprender algo → Educación
- Si habla de productividad, gestión del tiempo, hábitos → Productividad
- Si habla de ejercicio, dieta, bienestar → Salud
- Si habla de emprendimiento, startups, empresas → Negocios
- Si habla de publicidad, ventas, redes sociales → Marketing
- Si habla de motivación, mentalidad, superación → Desarrollo Personal
- Si es humor, música, vlogs → Entretenimiento

Responde ÚNICAMENTE con el nombre de la categoría:`,
		strings.Join(categories, ", "), title, author, context)
}

func subcategoriesPrompt(title, author, category, transcript string) string {
	context := ""
	if strings.TrimSpace(transcript) != "" {
		context = fmt.Sprintf("\n- Transcripción (fragmento): %s...", truncate(transcript, subcatTranscriptLimit))
	}
	return fmt.Sprintf(`Analiza este video y sugiere 2-3 subcategorías específicas dentro de %q.

Video:
- Título: %s
- Canal: %s%s

Ejemplos de subcategorías:
- Finanzas: Inversiones, Ahorro, Criptomonedas, Impuestos, Presupuesto
- Tecnología: IA, Programación, Apps, Hardware, Tutoriales
- Productividad: GTD, Notion, Hábitos, Gestión del tiempo
- Salud: Nutrición, Ejercicio, Mentalidad, Recetas
- Educación: Idiomas, Matemáticas, Ciencias, Historia

Responde SOLO con las subcategorías separadas por comas (máximo 3):`,
		category, title, author, context)
}

func areaPrompt(title, author, transcript string, areas []string) string {
	context := ""
	if strings.TrimSpace(transcript) != "" {
		context = fmt.Sprintf("\nTranscripción: %s...", truncate(transcript, classifyTranscriptLimit))
	}
	var list strings.Builder
	for _, area := range areas {
		fmt.Fprintf(&list, "- %s\n", area)
	}
	return fmt.Sprintf(`Clasifica este video en UNA área temática.

ÁREAS:
%s
VIDEO:
Título: %s
Autor: %s%s

Responde SOLO con JSON válido:
{"area": "NOMBRE", "confidence": "alta" o "media" o "baja"}`,
		list.String(), title, author, context)
}
