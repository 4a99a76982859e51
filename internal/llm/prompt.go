package llm

// receiptPrompt instructs the model to return receipt data as bare JSON.
// The explicit "confidence: 0 if unparseable" rule is load-bearing: the
// validator treats zero confidence as the only "not a receipt" signal.
const receiptPrompt = `You are a receipt/bill parsing expert. Analyze this receipt image and extract the following information in JSON format:

{
  "merchantName": "Name of the merchant/restaurant",
  "items": [
    {
      "name": "Item name",
      "price": 0.00,
      "quantity": 1
    }
  ],
  "subtotal": 0.00,
  "tax": 0.00,
  "tip": 0.00,
  "total": 0.00,
  "currency": "USD",
  "confidence": 0.95
}

Rules:
- Extract ALL individual items with their names and prices
- If quantity is not specified, assume 1
- Calculate subtotal as sum of all items
- Identify tax and tip amounts if present
- Total should match the bottom line total on the receipt
- Set confidence (0-1) based on image quality and clarity
- IMPORTANT: Detect the currency code correctly:
  - "Rp" or "IDR" = Indonesian Rupiah (use "IDR")
  - "$" or "USD" = US Dollar (use "USD")
  - "EUR" or the euro sign = Euro (use "EUR")
  - "GBP" or the pound sign = British Pound (use "GBP")
  - "JPY"/"CNY" or the yen sign = Yen/Yuan (use "JPY" or "CNY")
  - etc.
- Return ONLY valid JSON, no additional text
- If you cannot parse the receipt, return confidence: 0`
