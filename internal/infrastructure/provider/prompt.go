package provider

import (
	"fmt"
	"strings"

	"copyforge-core-shopify-layer/internal/domain"
)

// Section headings the remote model is asked to use. The parser depends on
// this exact convention.
const (
	sectionTitle          = "# TITLE"
	sectionDescription    = "# DESCRIPTION"
	sectionSEOTitle       = "# SEO_TITLE"
	sectionSEODescription = "# SEO_DESCRIPTION"
	sectionKeywords       = "# KEYWORDS"
)

const responseFormatInstructions = `Return your response using exactly these section headings, each on its own line:

# TITLE
The product title

# DESCRIPTION
The product description

# SEO_TITLE
An SEO-optimized page title (max 60 characters)

# SEO_DESCRIPTION
An SEO meta description (max 160 characters)

# KEYWORDS
A comma-separated list of search keywords`

func toneInstruction(tone domain.Tone) string {
	switch tone {
	case domain.ToneProfessional:
		return "Write in a professional, trustworthy tone."
	case domain.ToneCasual:
		return "Write in a casual, friendly tone."
	case domain.ToneEnthusiastic:
		return "Write in an enthusiastic, energetic tone."
	default:
		return ""
	}
}

// buildGeneratePrompt assembles the provider prompt for fresh content.
func buildGeneratePrompt(product domain.ProductData, store *domain.StoreContext, customPrompt string, opts domain.GenerationOptions) string {
	var b strings.Builder

	b.WriteString("You are an expert e-commerce copywriter. Write product content for the following product.\n\n")
	fmt.Fprintf(&b, "Product title: %s\n", product.Title)
	if product.Description != "" {
		fmt.Fprintf(&b, "Current description: %s\n", product.Description)
	}
	if store != nil && store.Name != "" {
		fmt.Fprintf(&b, "Store: %s", store.Name)
		if store.Description != "" {
			fmt.Fprintf(&b, " (%s)", store.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nTarget length: about %d words.\n", opts.Length)
	if t := toneInstruction(opts.Tone); t != "" {
		b.WriteString(t + "\n")
	}
	if len(opts.Keywords) > 0 {
		fmt.Fprintf(&b, "Incorporate these keywords naturally: %s.\n", strings.Join(opts.Keywords, ", "))
	}
	if customPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", customPrompt)
	}

	b.WriteString("\n" + responseFormatInstructions)
	return b.String()
}

// buildRegeneratePrompt assembles the prompt for a rewrite of previously
// generated content, carrying the user's feedback.
func buildRegeneratePrompt(previous domain.ProductContent, feedback string, opts domain.GenerationOptions) string {
	var b strings.Builder

	b.WriteString("You are an expert e-commerce copywriter. Rewrite the product content below according to the feedback.\n\n")
	b.WriteString("Previous content:\n")
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n%s\n", sectionTitle, previous.Title, sectionDescription, previous.Description)
	if previous.SEOTitle != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", sectionSEOTitle, previous.SEOTitle)
	}
	if previous.SEODescription != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", sectionSEODescription, previous.SEODescription)
	}
	if len(previous.Keywords) > 0 {
		fmt.Fprintf(&b, "\n%s\n%s\n", sectionKeywords, strings.Join(previous.Keywords, ", "))
	}

	fmt.Fprintf(&b, "\nFeedback: %s\n", feedback)
	fmt.Fprintf(&b, "\nTarget length: about %d words.\n", opts.Length)
	if t := toneInstruction(opts.Tone); t != "" {
		b.WriteString(t + "\n")
	}
	if len(opts.Keywords) > 0 {
		fmt.Fprintf(&b, "Incorporate these keywords naturally: %s.\n", strings.Join(opts.Keywords, ", "))
	}

	b.WriteString("\n" + responseFormatInstructions)
	return b.String()
}

// buildImagePrompt assembles the text part of a vision request.
func buildImagePrompt(product domain.ProductData, customPrompt string, opts domain.GenerationOptions) string {
	var b strings.Builder

	b.WriteString("You are an expert e-commerce copywriter. Look at the attached product image and write product content based on what you see.\n\n")
	if product.Title != "" {
		fmt.Fprintf(&b, "Product title: %s\n", product.Title)
	}
	fmt.Fprintf(&b, "\nTarget length: about %d words.\n", opts.Length)
	if t := toneInstruction(opts.Tone); t != "" {
		b.WriteString(t + "\n")
	}
	if customPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions: %s\n", customPrompt)
	}

	b.WriteString("\n" + responseFormatInstructions)
	return b.String()
}
