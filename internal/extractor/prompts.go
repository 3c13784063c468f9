package extractor

const extractionSystemPrompt = `You output strict JSON only.`

const extractionUserPrompt = `From the following conversation, extract structured lead information.

IMPORTANT RULES:
- Always infer intent. If the visitor is asking for a service, intent = sales.
- If service like web development, website redesign, marketing, etc is mentioned, populate service_interest.
- Convert numeric budgets into low/medium/high:
  low = small personal project
  medium = professional business budget
  high = enterprise or large budget
- Convert timeline phrases:
  urgent = less than 2 weeks
  soon = 2-6 weeks
  flexible = more than 6 weeks
- If information is missing, use 'unknown'.
- Always preserve previously collected valid information.

Return ONLY valid JSON with the following fields:
- name
- email
- phone
- intent (sales/support/other)
- service_interest
- budget_range (low/medium/high/unknown)
- timeline (urgent/soon/flexible/unknown)
- urgency_level (low/medium/high)
- lead_score (0-100)
- lead_temperature (hot/warm/cold)
- ai_summary (1-2 sentences)
- suggested_action

%s`
