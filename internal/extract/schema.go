package extract

import "encoding/json"

// Schema is the response schema sent to providers that support constrained
// JSON output. Every field is nullable so the model is never pushed to guess.
var Schema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "PremiseNumber": {"type": "STRING", "nullable": true},
    "Colony": {"type": "STRING", "nullable": true},
    "Street": {"type": "STRING", "nullable": true},
    "Locality": {"type": "STRING", "nullable": true},
    "Building": {"type": "STRING", "nullable": true},
    "Floor": {"type": "STRING", "nullable": true},
    "PostOffice": {"type": "STRING", "nullable": true},
    "Tehsil": {"type": "STRING", "nullable": true},
    "District": {"type": "STRING", "nullable": true},
    "State": {"type": "STRING", "nullable": true},
    "PIN": {"type": "STRING", "nullable": true},
    "Landmark": {"type": "STRING", "nullable": true},
    "Remaining": {"type": "STRING", "nullable": true},
    "FormattedAddress": {"type": "STRING", "nullable": true},
    "LocationType": {"type": "STRING", "nullable": true},
    "AddressQuality": {"type": "STRING", "enum": ["Very Good", "Good", "Medium", "Bad", "Very Bad"]},
    "LocationSuitability": {"type": "STRING", "enum": ["Prime Location", "Tier 1 & 2 Cities", "Remote/Difficult Location", "Non-Serviceable Location"]}
  },
  "required": ["FormattedAddress", "AddressQuality", "LocationSuitability"]
}`)
