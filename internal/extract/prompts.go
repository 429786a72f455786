package extract

import "fmt"

const generalSystemPrompt = "You are an expert in extracting structured data from invoice text. Always return valid JSON."

const paymentSystemPrompt = "You are an expert in Danish invoice payment processing. Identify payment types and extract exact payment details. Return ONLY valid JSON."

const chargesSystemPrompt = "You are an expert in Danish invoice processing. You must accurately identify and extract all additional charges and fees."

// generalPrompt builds the per-chunk extraction prompt.
func generalPrompt(chunk string) string {
	return fmt.Sprintf(`Extract all possible invoice information from this text. Return the data as a JSON object with these fields if present:

- invoice_number: The invoice number ONLY (look for 'FAKTURA NUMMER', 'Fakturanummer' - this should be just a number like '3341219')
- billing_account: The customer account number (look for 'Fakturakonto', 'Kontonummer', or similar)
- invoice_date: The date the invoice was issued (YYYY-MM-DD format)
- due_date: The payment due date (YYYY-MM-DD format)
- currency: The currency code (e.g., DKK, EUR, USD)

# IMPORTANT: Look for these specific reference fields
- customer_reference: The customer's reference (look for 'DERES REF.', 'Deres ref', 'Deres reference')
- order_number: ONLY the case/order number (look for 'SAGS. NR.', which is usually followed by a shorter number like '4028204'). DO NOT include any other numbers like customer number, zip codes, etc.

# IMPORTANT: For Danish invoices, the customer information is at the TOP of the invoice
- customer_name: The name of the customer (typically at the TOP of the invoice)
- customer_cvr: The CVR number of the customer (look for 'CVR', 'CVR nr.', 'CVR-nr', or an 8-digit number)
- customer_vat: The VAT number of the customer (look for 'SE', 'SE nr.', 'Moms nr.', or 'DK' followed by 8 digits)
- customer_street: The street address of the customer
- customer_city: The city of the customer
- customer_postal_code: The postal/zip code of the customer
- customer_country: The country of the customer (use 2-letter code like DK, SE)

# IMPORTANT: The supplier information is usually at the BOTTOM of the invoice and the header
- supplier_name: The name of the supplier/vendor (often found at the BOTTOM of the invoice or in the header)
- supplier_cvr: The CVR number of the supplier (look for 'CVR nr.:', 'CVR-nr:', 'CVR:' followed by 8 digits)
- supplier_vat: The VAT/SE number of the supplier (look for 'SE nr.:', 'SE-nr:', 'Moms nr.:' followed by 'DK' and 8 digits)
- supplier_street: The street address of the supplier
- supplier_city: The city of the supplier
- supplier_postal_code: The postal/zip code of the supplier
- supplier_country: The country of the supplier (use 2-letter code like DK, SE)

# CRITICAL: DO NOT confuse order number with other numbers in the document!
- The order number is specifically labeled as 'SAGS. NR.' and is usually a shorter number (4-8 digits)
- DO NOT combine different numbers from the document
- If you cannot clearly identify the order number, leave it blank

# IMPORTANT: Danish companies have TWO identification numbers:
# 1. CVR number (Central Business Register): Always 8 digits (e.g., 55828415)
# 2. VAT number (SE number): Usually 'DK' followed by 8 digits (e.g., DK12683693)
# Make sure to extract BOTH if present, and put them in the correct fields!

- subtotal: The subtotal amount (before tax and any additional charges)
- tax_amount: The total tax/VAT amount
- tax_percent: The tax/VAT percentage (e.g., 25 for 25%%)
- total_amount: The total amount (including tax)
- payment_terms: The payment terms (e.g., "30 days", "Netto 14 dage")
- payment_means_code: The payment means code (e.g., 30 for credit transfer, 42 for bank account)

# CRITICAL - SPECIAL PARSING INSTRUCTIONS FOR LINE ITEMS
- line_items: An array of items with these fields for each:
    - item_number: The product or item number/code (if available)
    - description: The description of the item
    - quantity: The quantity as a NUMBER ONLY (e.g., 5, not "5 stk", not "m5")
    - unit: The unit of measure as TEXT ONLY (e.g., "stk", "m", "kg", NOT "5 stk", NOT "m5")
    - unit_price: The price per unit
    - discount: The discount percentage (if present in the document, e.g., "62.00" would be a 62%% discount)
    - amount: The total amount for this line (after discount if applicable)

# CRITICAL - SPECIAL HANDLING FOR MERGED QUANTITY AND UNIT:
- If you see formats like "m5", "stk3", "kg10" in the unit column, ALWAYS split these into:
- unit: Just the letters (e.g., "m", "stk", "kg")
- quantity: Just the numbers (e.g., 5, 3, 10)

# CRITICAL - DISCOUNT HANDLING:
- Look for percentage values like "62.00" that appear in the line item section
- These typically represent discount percentages
- Include these as "discount" in the line item if present

Only include fields that you can identify from the text. Do not make up or assume information.
Respond with ONLY the JSON object, nothing else.

Text:
%s`, chunk)
}

// paymentPrompt builds the payment-details extraction prompt.
func paymentPrompt(content string) string {
	return fmt.Sprintf(`Extract payment method information from this Danish invoice text.

CRITICAL: Correctly identify the payment type:

1. FIK PAYMENT (Code 93):
- MUST have format: +71<...+...< or +73<...+...< or +75<...+...<
- Look for "Betalings-id:" or "+71<" patterns
- Example: "+71<123456789012345+98765432<"
- For FIK: payment_means_code = 93, payment_id = 71/73/75
- instruction_id = 15 digits BEFORE the +
- account_id = EXACTLY 8 digits AFTER the +

2. BANK TRANSFER (Code 42):
- NO FIK pattern present
- Has IBAN, BIC/SWIFT, or regular bank account
- Look for "Bank account:", "IBAN:", "BIC:", "SWIFT:"
- For Bank Transfer: payment_means_code = 42

3. UNSPECIFIED (Code 30):
- No specific payment information
- Only payment terms like "Netto 14 dage"

IMPORTANT:
- ONLY use code 93 if you find the FIK pattern (+71< etc.)
- If no FIK pattern but bank details exist, use code 42
- Double-check: FIK account_id MUST be exactly 8 digits

Return JSON with:
- payment_method_type: "FIK", "BANK_TRANSFER", or "UNSPECIFIED"
- payment_means_code: 93 (FIK), 42 (bank), or 30 (unspecified)

For FIK payments:
- instruction_id: 15-digit instruction ID
- payment_id: 71, 73, or 75 ONLY
- account_id: EXACTLY 8 digits (pad with zeros if needed)

For Bank transfers:
- bank_account: Complete bank account
- reg_number: 4-digit registration
- account_number: Account number
- iban: IBAN if present
- bic: BIC/SWIFT if present

Common:
- payment_terms: Payment terms text
- payment_due_date: Due date in YYYY-MM-DD

RETURN ONLY JSON.

Text:
%s`, content)
}

// chargesPrompt builds the additional-charges extraction prompt.
func chargesPrompt(content string) string {
	return fmt.Sprintf(`Extract any additional charges or fees from this Danish invoice text.

CRITICAL: Look for any environmental fees, shipping charges, or other additional costs that are NOT regular line items.

Return a JSON object with these fields:

- environmental_fee: Environmental fee amount (look for "Miljøafgift", "Miljøgebyr", "Environmental fee")
- environmental_fee_description: The exact text describing the environmental fee
- shipping_fee: Shipping or freight charges (look for "Fragt", "Transport", "Shipping")
- shipping_fee_description: The exact text describing the shipping fee
- other_charges: Array of other charges, each with:
- description: Description of the charge
- amount: The amount
- subtotal_before_charges: The merchandise subtotal before any additional charges
- subtotal_with_charges: The total after adding charges but before VAT

IMPORTANT INSTRUCTIONS:
1. Environmental fees are often listed separately AFTER the line items
2. Shipping/freight charges are also typically shown after line items
3. These fees are typically added to the merchandise subtotal BEFORE VAT calculation
4. Look for amounts that appear after the main line items but before the final totals
5. Extract the EXACT amounts shown in the invoice

Example patterns to look for:
- "Miljøafgift 190,64"
- "Fragt 141,00"
- "Fragt/transport 479,79"
- Any charge that's not a regular product line item

Text:
%s`, content)
}
